package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/service-marketplace/internal/middleware"
	ucBooking "github.com/BruksfildServices01/service-marketplace/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability *ucBooking.GetAvailability
	create       *ucBooking.CreateBooking
	updateStatus *ucBooking.UpdateBookingStatus
	list         *ucBooking.ListBookings
	loc          *time.Location
}

func NewBookingHandler(
	availability *ucBooking.GetAvailability,
	create *ucBooking.CreateBooking,
	updateStatus *ucBooking.UpdateBookingStatus,
	list *ucBooking.ListBookings,
	loc *time.Location,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		create:       create,
		updateStatus: updateStatus,
		list:         list,
		loc:          loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID        uint   `json:"service_id" binding:"required"`
	ProviderID       uint   `json:"provider_id" binding:"required"`
	BookingStartTime string `json:"booking_start_time" binding:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// AVAILABILITY (público)
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	providerID, ok := uintParam(c, "provider_id")
	if !ok {
		httperr.BadRequest(c, "invalid_provider_id", "Prestador inválido.")
		return
	}

	date, err := parseDateParam(h.loc, c.Param("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), ucBooking.AvailabilityInput{
		ProviderID: providerID,
		Date:       date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"availableSlots": slots})
}

// ======================================================
// CREATE (cliente)
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_fields", "Campos obrigatórios ausentes.")
		return
	}

	start, err := parseStartParam(h.loc, req.BookingStartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		CustomerID: middleware.UserID(c),
		ServiceID:  req.ServiceID,
		ProviderID: req.ProviderID,
		Start:      start,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// STATUS (prestador)
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.NotFound(c, "booking_not_found", "Reserva não encontrada.")
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_status", "Status inválido.")
		return
	}

	b, err := h.updateStatus.Execute(c.Request.Context(), middleware.UserID(c), id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	items, err := h.list.Execute(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}
