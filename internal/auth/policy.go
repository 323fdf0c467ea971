package auth

import "github.com/akarpov91/flightbook/internal/domain"

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

type Resource string

const (
	ResourceUser      Resource = "user"
	ResourceAirport   Resource = "airport"
	ResourceAirline   Resource = "airline"
	ResourceAircraft  Resource = "aircraft"
	ResourceFlight    Resource = "flight"
	ResourceBooking   Resource = "booking"
	ResourcePassenger Resource = "passenger"
	ResourcePayment   Resource = "payment"
)

// Principal is the caller identity attached to a request. The zero
// value is an anonymous caller.
type Principal struct {
	UserID        int64
	Username      string
	UserType      domain.UserType
	Authenticated bool
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated && p.UserType == domain.UserTypeAdmin
}

func (p Principal) IsStaff() bool {
	return p.Authenticated && p.UserType == domain.UserTypeStaff
}

// CanPerform decides whether the principal may perform the action on
// the resource. Flight search is public, user management is admin
// only, catalog mutations need admin or airline staff, everything
// else needs authentication. Ownership of bookings is enforced in the
// booking service, not here.
func CanPerform(p Principal, action Action, resource Resource) bool {
	if resource == ResourceFlight && (action == ActionList || action == ActionRetrieve) {
		return true
	}
	if !p.Authenticated {
		return false
	}
	switch resource {
	case ResourceUser:
		return p.IsAdmin()
	case ResourceAirport, ResourceAirline, ResourceAircraft, ResourceFlight:
		switch action {
		case ActionList, ActionRetrieve:
			return true
		default:
			return p.IsAdmin() || p.IsStaff()
		}
	case ResourceBooking, ResourcePassenger, ResourcePayment:
		return true
	}
	return false
}
