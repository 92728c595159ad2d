package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
	router.GET("/:id", h.get)
	router.GET("/:id/booking-info", h.bookingInfo)
}

func (h *FlightHandler) search(c *gin.Context) {
	query := flights.SearchQuery{
		Origin:        c.Query("origin"),
		Destination:   c.Query("destination"),
		DepartureDate: c.Query("departureDate"),
	}
	if raw := c.Query("dayRange"); raw != "" {
		dayRange, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "dayRange must be an integer"})
			return
		}
		query.DayRange = dayRange
	}

	result, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, flights.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, toFlightDTOs(result))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "flight not found")
		return
	}
	c.JSON(http.StatusOK, toFlightDTO(flight))
}

func (h *FlightHandler) bookingInfo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	flight, err := h.service.BookingInfo(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "flight not found")
		return
	}
	c.JSON(http.StatusOK, toBookingInfoDTO(flight))
}

func writeLookupError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: notFound})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
