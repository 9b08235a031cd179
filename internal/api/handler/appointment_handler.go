package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for appointment operations.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

type createAppointmentRequest struct {
	PatientID       string `json:"patient_id" validate:"required,objectid"`
	ProviderID      string `json:"provider_id" validate:"required,objectid"`
	Date            string `json:"date" validate:"required,futuredate"`
	StartTime       string `json:"start_time" validate:"required,timeofday"`
	EndTime         string `json:"end_time" validate:"omitempty,timeofday"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gt=0"`
	Reason          string `json:"reason"`
	Department      string `json:"department"`
}

type updateAppointmentRequest struct {
	Date      string `json:"date" validate:"omitempty,futuredate"`
	StartTime string `json:"start_time" validate:"omitempty,timeofday"`
	EndTime   string `json:"end_time" validate:"omitempty,timeofday"`
	Status    string `json:"status" validate:"omitempty,oneof=scheduled confirmed checked_in in_progress completed cancelled no_show"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

// Create handles POST /api/v1/appointments. Booking an occupied slot fails:
// two blocking appointments can never share a provider, date, and start time.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "Appointment details"
// @Success      201   {object}  envelope{data=domain.Appointment}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/v1/appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	appointment, err := h.service.Create(c.Request().Context(), ports.CreateAppointmentInput{
		PatientID:       req.PatientID,
		ProviderID:      req.ProviderID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		Reason:          req.Reason,
		Department:      req.Department,
		CreatedBy:       actor.ID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "appointment booked", appointment)
}

// Get handles GET /api/v1/appointments/:id.
//
// @Summary      Get an appointment by id
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  envelope{data=domain.Appointment}
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	appointment, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", appointment)
}

// Update handles PUT /api/v1/appointments/:id. Rescheduling re-runs the
// conflict check against the new slot, excluding the appointment itself.
//
// @Summary      Update or reschedule an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment id"
// @Param        body  body      updateAppointmentRequest  true  "Fields to update"
// @Success      200   {object}  envelope{data=domain.Appointment}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/v1/appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	appointment, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateAppointmentInput{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    domain.AppointmentStatus(req.Status),
		Reason:    req.Reason,
		Notes:     req.Notes,
		UpdatedBy: actor.ID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "appointment updated", appointment)
}

// Cancel handles DELETE /api/v1/appointments/:id. Cancelling frees the slot
// for other bookings.
//
// @Summary      Cancel an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/appointments/{id} [delete]
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Cancel(c.Request().Context(), c.Param("id"), actor.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "appointment cancelled", nil)
}

// List handles GET /api/v1/appointments.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        patient   query     string  false  "Filter by patient id"
// @Param        provider  query     string  false  "Filter by provider id"
// @Param        date      query     string  false  "Filter by day (YYYY-MM-DD)"
// @Param        status    query     string  false  "Filter by status"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  envelope{data=[]domain.Appointment}
// @Router       /api/v1/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	appointments, total, err := h.service.List(c.Request().Context(), ports.ListAppointmentsFilter{
		PatientID:  c.QueryParam("patient"),
		ProviderID: c.QueryParam("provider"),
		Date:       c.QueryParam("date"),
		Status:     domain.AppointmentStatus(c.QueryParam("status")),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	return respondList(c, "", appointments, total)
}

// Today handles GET /api/v1/appointments/today.
//
// @Summary      List today's appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        provider  query     string  false  "Filter by provider id"
// @Success      200       {object}  envelope{data=[]domain.Appointment}
// @Router       /api/v1/appointments/today [get]
func (h *AppointmentHandler) Today(c echo.Context) error {
	appointments, err := h.service.Today(c.Request().Context(), c.QueryParam("provider"))
	if err != nil {
		return err
	}
	return respondList(c, "", appointments, int64(len(appointments)))
}
