package domain

import "time"

type UserType string

const (
	UserTypeAdmin    UserType = "admin"
	UserTypeStaff    UserType = "staff"
	UserTypeCustomer UserType = "customer"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeAdmin, UserTypeStaff, UserTypeCustomer:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	UserType     UserType  `json:"user_type"`
	PhoneNumber  string    `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
