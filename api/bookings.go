package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the routes. Every booking route needs an authenticated
// user, so the group must already carry RequireUser.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req BookingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	b, flight, err := h.service.MakeBooking(c.Request.Context(), currentUser(c), req.FlightID, req.Seats)
	if err != nil {
		var be *domain.BookingError
		switch {
		case errors.As(err, &be):
			c.JSON(http.StatusConflict, errorResponse{Error: be.Error()})
		case errors.Is(err, booking.ErrFlightBusy):
			c.Header("Retry-After", "1")
			c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		default:
			writeLookupError(c, err, "flight not found")
		}
		return
	}

	c.Header("Location", "/bookings/"+strconv.FormatInt(b.ID, 10))
	c.JSON(http.StatusCreated, toFlightBookingDTO(b, flight))
}

func (h *BookingHandler) list(c *gin.Context) {
	details, err := h.service.ListBookings(c.Request.Context(), currentUser(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, toFlightBookingDTOs(details))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	details, err := h.service.GetBooking(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeLookupError(c, err, "booking not found")
		return
	}
	c.JSON(http.StatusOK, toFlightBookingDTO(details.Booking, details.Flight))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	if err := h.service.CancelBooking(c.Request.Context(), currentUser(c), id); err != nil {
		if errors.Is(err, booking.ErrFlightBusy) {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
			return
		}
		writeLookupError(c, err, "booking not found")
		return
	}
	c.Status(http.StatusNoContent)
}
