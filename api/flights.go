package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

// Register mounts the public catalogue routes.
func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.search)
	router.GET("/:flightId", h.get)
}

// RegisterAdmin mounts flight maintenance routes; the group must require an admin.
func (h *FlightHandler) RegisterAdmin(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.PUT("/:flightId", h.update)
	router.DELETE("/:flightId", h.delete)
}

type flightList struct {
	Count   int `json:"count"`
	Flights any `json:"flights"`
}

func (h *FlightHandler) search(c *gin.Context) {
	var input flights.SearchInput
	if err := c.ShouldBindQuery(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid search parameters")
		return
	}

	result, err := h.service.Search(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, flightList{Count: len(result), Flights: result}, "")
}

func (h *FlightHandler) list(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, flightList{Count: len(result), Flights: result}, "")
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c, "flightId")
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, flight, "")
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flights.CreateFlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	flight, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, flight, "flight added successfully")
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := pathID(c, "flightId")
	if !ok {
		return
	}
	var req flights.UpdateFlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	flight, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, flight, "flight updated successfully")
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "flightId")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "flight deleted successfully")
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
