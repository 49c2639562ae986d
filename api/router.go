package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/service/booking"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/service/flights"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Auth     *Authenticator
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	flightHandler := NewFlightHandler(deps.Flights)
	bookingHandler := NewBookingHandler(deps.Bookings)

	public := r.Group("/api/flights")
	flightHandler.Register(public)
	bookingHandler.Register(public.Group("", deps.Auth.RequireAuth()))

	admin := r.Group("/api/admin", deps.Auth.RequireAuth(), RequireAdmin())
	bookingHandler.RegisterAdmin(admin.Group("/bookings"))
	flightHandler.RegisterAdmin(admin.Group("/flights"))

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "route not found")
	})
	return r
}
