package api

import (
	"net/http"

	"github.com/akarpov91/flightbook/internal/auth"
	"github.com/gin-gonic/gin"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Tokens     *auth.TokenManager
	Auth       *AuthHandler
	Users      *UserHandler
	Airports   *AirportHandler
	Airlines   *AirlineHandler
	Aircraft   *AircraftHandler
	Flights    *FlightHandler
	Bookings   *BookingHandler
	Passengers *PassengerHandler
	Payments   *PaymentHandler
}

func NewRouter(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), Authenticate(deps.Tokens))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	deps.Auth.Register(engine)
	deps.Users.Register(engine.Group("/users"))
	deps.Airports.Register(engine.Group("/airports"))
	deps.Airlines.Register(engine.Group("/airlines"))
	deps.Aircraft.Register(engine.Group("/aircrafts"))
	deps.Flights.Register(engine.Group("/flights"))
	deps.Bookings.Register(engine.Group("/bookings"))
	deps.Passengers.Register(engine.Group("/passengers"))
	deps.Payments.Register(engine.Group("/payments"))

	return engine
}
