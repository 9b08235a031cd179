package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// StaffHandler handles HTTP requests for staff account operations. Account
// creation goes through AuthHandler.Register.
type StaffHandler struct {
	service ports.StaffService
}

func NewStaffHandler(service ports.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

type updateStaffRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone" validate:"omitempty,phone"`
	Department     string `json:"department"`
	LicenseNumber  string `json:"license_number"`
	Specialization string `json:"specialization"`
	Role           string `json:"role" validate:"omitempty,oneof=admin doctor nurse receptionist lab_tech pharmacist"`
}

// Get handles GET /api/v1/staff/:id.
//
// @Summary      Get a staff member by id
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  envelope{data=userResponse}
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/staff/{id} [get]
func (h *StaffHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", toUserResponse(user))
}

// Update handles PUT /api/v1/staff/:id. Admin only; role changes included.
//
// @Summary      Update a staff member's profile
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "User id"
// @Param        body  body      updateStaffRequest  true  "Fields to update"
// @Success      200   {object}  envelope{data=userResponse}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/v1/staff/{id} [put]
func (h *StaffHandler) Update(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateStaffRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateStaffInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Department:     req.Department,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
		Role:           domain.Role(req.Role),
		UpdatedBy:      actor.ID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "staff member updated", toUserResponse(user))
}

// Delete handles DELETE /api/v1/staff/:id. Admin only; staff accounts are
// deactivated, never removed.
//
// @Summary      Deactivate a staff member
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/staff/{id} [delete]
func (h *StaffHandler) Delete(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actor.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "staff member deactivated", nil)
}

// List handles GET /api/v1/staff.
//
// @Summary      List staff members
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        role        query     string  false  "Filter by role"
// @Param        department  query     string  false  "Filter by department"
// @Param        page        query     int     false  "Page (1-based)"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Success      200         {object}  envelope{data=[]userResponse}
// @Router       /api/v1/staff [get]
func (h *StaffHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, total, err := h.service.List(c.Request().Context(), ports.ListUsersFilter{
		Role:       domain.Role(c.QueryParam("role")),
		Department: c.QueryParam("department"),
		ActiveOnly: c.QueryParam("include_inactive") != "true",
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	return respondList(c, "", toUserResponses(users), total)
}
