package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// PatientHandler handles HTTP requests for patient operations.
type PatientHandler struct {
	service ports.PatientService
}

func NewPatientHandler(service ports.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// --- Request types ---

type emergencyContactRequest struct {
	Name     string `json:"name" validate:"required"`
	Relation string `json:"relation" validate:"required"`
	Phone    string `json:"phone" validate:"required,phone"`
}

type addressRequest struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type createPatientRequest struct {
	FirstName        string                  `json:"first_name" validate:"required"`
	LastName         string                  `json:"last_name" validate:"required"`
	DateOfBirth      string                  `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender           string                  `json:"gender" validate:"required,oneof=male female other"`
	BloodGroup       string                  `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Phone            string                  `json:"phone" validate:"required,phone"`
	Email            string                  `json:"email" validate:"omitempty,email"`
	Address          addressRequest          `json:"address" validate:"required"`
	EmergencyContact emergencyContactRequest `json:"emergency_contact" validate:"required"`
	Allergies        []string                `json:"allergies"`
	PrimaryDoctorID  string                  `json:"primary_doctor_id" validate:"omitempty,objectid"`
	Department       string                  `json:"department"`
}

type updatePatientRequest struct {
	Phone            string                   `json:"phone" validate:"omitempty,phone"`
	Email            string                   `json:"email" validate:"omitempty,email"`
	Address          *addressRequest          `json:"address"`
	EmergencyContact *emergencyContactRequest `json:"emergency_contact"`
	Allergies        []string                 `json:"allergies"`
	PrimaryDoctorID  string                   `json:"primary_doctor_id" validate:"omitempty,objectid"`
	Department       string                   `json:"department"`
	BloodGroup       string                   `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
}

// Create handles POST /api/v1/patients.
//
// @Summary      Register a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Patient details"
// @Success      201   {object}  envelope{data=domain.Patient}
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/v1/patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return &ValidationError{Messages: []string{"date_of_birth must be a valid YYYY-MM-DD date"}}
	}

	patient, err := h.service.Create(c.Request().Context(), ports.CreatePatientInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		Gender:      req.Gender,
		BloodGroup:  req.BloodGroup,
		Phone:       req.Phone,
		Email:       req.Email,
		Address: domain.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
		},
		EmergencyContact: domain.EmergencyContact{
			Name:     req.EmergencyContact.Name,
			Relation: req.EmergencyContact.Relation,
			Phone:    req.EmergencyContact.Phone,
		},
		Allergies:       req.Allergies,
		PrimaryDoctorID: req.PrimaryDoctorID,
		Department:      req.Department,
		CreatedBy:       actor.ID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "patient registered", patient)
}

// Get handles GET /api/v1/patients/:id.
//
// @Summary      Get a patient by id
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient database id"
// @Success      200  {object}  envelope{data=domain.Patient}
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	patient, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", patient)
}

// Update handles PUT /api/v1/patients/:id.
//
// @Summary      Update a patient's contact and care details
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Patient database id"
// @Param        body  body      updatePatientRequest  true  "Fields to update"
// @Success      200   {object}  envelope{data=domain.Patient}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/v1/patients/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updatePatientRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.UpdatePatientInput{
		Phone:           req.Phone,
		Email:           req.Email,
		Allergies:       req.Allergies,
		PrimaryDoctorID: req.PrimaryDoctorID,
		Department:      req.Department,
		BloodGroup:      req.BloodGroup,
		UpdatedBy:       actor.ID,
	}
	if req.Address != nil {
		input.Address = &domain.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
		}
	}
	if req.EmergencyContact != nil {
		input.EmergencyContact = &domain.EmergencyContact{
			Name:     req.EmergencyContact.Name,
			Relation: req.EmergencyContact.Relation,
			Phone:    req.EmergencyContact.Phone,
		}
	}

	patient, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "patient updated", patient)
}

// Delete handles DELETE /api/v1/patients/:id. Patients are soft-deleted; their
// appointment and record history is preserved.
//
// @Summary      Deactivate a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient database id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/patients/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actor.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "patient deactivated", nil)
}

// List handles GET /api/v1/patients.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        search   query     string  false  "Partial match on name or patient_id"
// @Param        doctor   query     string  false  "Filter by primary doctor id"
// @Param        page     query     int     false  "Page (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Success      200      {object}  envelope{data=[]domain.Patient}
// @Router       /api/v1/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	patients, total, err := h.service.List(c.Request().Context(), ports.ListPatientsFilter{
		Search:          c.QueryParam("search"),
		PrimaryDoctorID: c.QueryParam("doctor"),
		ActiveOnly:      c.QueryParam("include_inactive") != "true",
		Page:            page,
		Limit:           limit,
	})
	if err != nil {
		return err
	}

	return respondList(c, "", patients, total)
}
