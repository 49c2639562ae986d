package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the traveller routes; the group must require authentication.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/book", h.create)
	router.GET("/my-bookings", h.mine)
	router.GET("/details/:bookingId", h.details)
	router.PUT("/update/:bookingId", h.updateRequests)
	router.DELETE("/cancel/:bookingId", h.cancel)
}

// RegisterAdmin mounts booking administration; the group must require an admin.
func (h *BookingHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:bookingId", h.adminDetails)
	router.PUT("/:bookingId/cancel", h.adminCancel)
}

type updateRequestsRequest struct {
	SpecialRequests string `json:"specialRequests" binding:"max=1000"`
}

type adminCancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type userBookings struct {
	Count    int              `json:"count"`
	Bookings []domain.Booking `json:"bookings"`
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = claimsFrom(c).UserID

	res, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, res, "booking confirmed successfully")
}

func (h *BookingHandler) mine(c *gin.Context) {
	bookings, err := h.service.ListUserBookings(c.Request.Context(), claimsFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, userBookings{Count: len(bookings), Bookings: bookings}, "")
}

func (h *BookingHandler) details(c *gin.Context) {
	id, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), id, claimsFrom(c).UserID, domain.PolicySelf)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, b, "")
}

func (h *BookingHandler) updateRequests(c *gin.Context) {
	id, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	var req updateRequestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.service.UpdateSpecialRequests(c.Request.Context(), id, claimsFrom(c).UserID, req.SpecialRequests)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, b, "booking updated successfully")
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	res, err := h.service.CancelBooking(c.Request.Context(), booking.CancelBookingInput{
		BookingID:   id,
		RequesterID: claimsFrom(c).UserID,
		Policy:      domain.PolicySelf,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res, "booking cancelled successfully")
}

func (h *BookingHandler) list(c *gin.Context) {
	var input booking.ListBookingsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid pagination parameters")
		return
	}

	page, err := h.service.ListBookings(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page, "")
}

func (h *BookingHandler) adminDetails(c *gin.Context) {
	id, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), id, 0, domain.PolicyAdmin)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, b, "")
}

func (h *BookingHandler) adminCancel(c *gin.Context) {
	id, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	var req adminCancelRequest
	// the body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	res, err := h.service.CancelBooking(c.Request.Context(), booking.CancelBookingInput{
		BookingID: id,
		Policy:    domain.PolicyAdmin,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res, "booking cancelled by admin")
}
