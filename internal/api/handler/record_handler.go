package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// maxAttachmentBytes caps a single uploaded file at 16 MiB.
const maxAttachmentBytes = 16 << 20

// RecordHandler handles HTTP requests for medical record operations.
type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

type vitalsRequest struct {
	BloodPressure string  `json:"blood_pressure"`
	HeartRate     int     `json:"heart_rate" validate:"omitempty,gt=0"`
	Temperature   float64 `json:"temperature" validate:"omitempty,gt=0"`
	WeightKg      float64 `json:"weight_kg" validate:"omitempty,gt=0"`
	HeightCm      float64 `json:"height_cm" validate:"omitempty,gt=0"`
}

type medicationRequest struct {
	Name      string `json:"name" validate:"required"`
	Dosage    string `json:"dosage" validate:"required"`
	Frequency string `json:"frequency" validate:"required"`
	Duration  string `json:"duration"`
}

type labResultRequest struct {
	TestName    string    `json:"test_name" validate:"required"`
	Result      string    `json:"result" validate:"required"`
	NormalRange string    `json:"normal_range"`
	TestedAt    time.Time `json:"tested_at"`
}

type createRecordRequest struct {
	PatientID            string              `json:"patient_id" validate:"required,objectid"`
	AttendingPhysicianID string              `json:"attending_physician_id" validate:"required,objectid"`
	VisitDate            time.Time           `json:"visit_date" validate:"required"`
	VisitType            string              `json:"visit_type" validate:"omitempty,oneof=consultation follow_up emergency procedure lab_visit"`
	Diagnosis            string              `json:"diagnosis" validate:"required"`
	Treatment            string              `json:"treatment"`
	Vitals               vitalsRequest       `json:"vitals"`
	Medications          []medicationRequest `json:"medications" validate:"dive"`
	LabResults           []labResultRequest  `json:"lab_results" validate:"dive"`
	Department           string              `json:"department"`
}

type updateRecordRequest struct {
	Diagnosis   string              `json:"diagnosis"`
	Treatment   string              `json:"treatment"`
	Vitals      *vitalsRequest      `json:"vitals"`
	Medications []medicationRequest `json:"medications" validate:"dive"`
	LabResults  []labResultRequest  `json:"lab_results" validate:"dive"`
	Status      string              `json:"status" validate:"omitempty,oneof=draft completed reviewed"`
}

func toVitals(v vitalsRequest) domain.Vitals {
	return domain.Vitals{
		BloodPressure: v.BloodPressure,
		HeartRate:     v.HeartRate,
		Temperature:   v.Temperature,
		WeightKg:      v.WeightKg,
		HeightCm:      v.HeightCm,
	}
}

func toMedications(in []medicationRequest) []domain.Medication {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Medication, len(in))
	for i, m := range in {
		out[i] = domain.Medication{Name: m.Name, Dosage: m.Dosage, Frequency: m.Frequency, Duration: m.Duration}
	}
	return out
}

func toLabResults(in []labResultRequest) []domain.LabResult {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.LabResult, len(in))
	for i, r := range in {
		out[i] = domain.LabResult{TestName: r.TestName, Result: r.Result, NormalRange: r.NormalRange, TestedAt: r.TestedAt}
	}
	return out
}

// Create handles POST /api/v1/medical-records.
//
// @Summary      Open a medical record for a visit
// @Tags         medical-records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRecordRequest  true  "Visit details"
// @Success      201   {object}  envelope{data=domain.MedicalRecord}
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/v1/medical-records [post]
func (h *RecordHandler) Create(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createRecordRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.service.Create(c.Request().Context(), ports.CreateRecordInput{
		PatientID:            req.PatientID,
		AttendingPhysicianID: req.AttendingPhysicianID,
		VisitDate:            req.VisitDate,
		VisitType:            req.VisitType,
		Diagnosis:            req.Diagnosis,
		Treatment:            req.Treatment,
		Vitals:               toVitals(req.Vitals),
		Medications:          toMedications(req.Medications),
		LabResults:           toLabResults(req.LabResults),
		Department:           req.Department,
		CreatedBy:            actor.ID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "record created", record)
}

// Get handles GET /api/v1/medical-records/:id.
//
// @Summary      Get a medical record by id
// @Tags         medical-records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  envelope{data=domain.MedicalRecord}
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/medical-records/{id} [get]
func (h *RecordHandler) Get(c echo.Context) error {
	record, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", record)
}

// Update handles PUT /api/v1/medical-records/:id.
//
// @Summary      Update a medical record
// @Tags         medical-records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Record id"
// @Param        body  body      updateRecordRequest  true  "Fields to update"
// @Success      200   {object}  envelope{data=domain.MedicalRecord}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/v1/medical-records/{id} [put]
func (h *RecordHandler) Update(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateRecordRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.UpdateRecordInput{
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Medications: toMedications(req.Medications),
		LabResults:  toLabResults(req.LabResults),
		Status:      domain.RecordStatus(req.Status),
		UpdatedBy:   actor.ID,
	}
	if req.Vitals != nil {
		v := toVitals(*req.Vitals)
		input.Vitals = &v
	}

	record, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "record updated", record)
}

// Delete handles DELETE /api/v1/medical-records/:id. Admin only.
//
// @Summary      Delete a medical record
// @Tags         medical-records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/v1/medical-records/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "record deleted", nil)
}

// List handles GET /api/v1/medical-records.
//
// @Summary      List medical records
// @Tags         medical-records
// @Produce      json
// @Security     BearerAuth
// @Param        patient    query     string  false  "Filter by patient id"
// @Param        physician  query     string  false  "Filter by attending physician id"
// @Param        status     query     string  false  "Filter by status"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  envelope{data=[]domain.MedicalRecord}
// @Router       /api/v1/medical-records [get]
func (h *RecordHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	records, total, err := h.service.List(c.Request().Context(), ports.ListRecordsFilter{
		PatientID:   c.QueryParam("patient"),
		PhysicianID: c.QueryParam("physician"),
		Status:      domain.RecordStatus(c.QueryParam("status")),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return err
	}

	return respondList(c, "", records, total)
}

// Attach handles POST /api/v1/medical-records/:id/attachments. Accepts a
// single multipart file under the "file" field.
//
// @Summary      Attach a file to a medical record
// @Tags         medical-records
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Record id"
// @Param        file  formData  file    true  "File to attach"
// @Success      200   {object}  envelope{data=domain.MedicalRecord}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/v1/medical-records/{id}/attachments [post]
func (h *RecordHandler) Attach(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return &ValidationError{Messages: []string{"file is required"}}
	}

	upload, closeFn, err := openUpload(fh, actor.ID)
	if err != nil {
		return err
	}
	defer closeFn()

	record, err := h.service.Attach(c.Request().Context(), c.Param("id"), []ports.UploadInput{upload})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "attachment stored", record)
}

// AttachBatch handles POST /api/v1/medical-records/:id/attachments/batch.
// Accepts multiple multipart files under the "files" field.
//
// @Summary      Attach multiple files to a medical record
// @Tags         medical-records
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Record id"
// @Param        files  formData  file    true  "Files to attach"
// @Success      200    {object}  envelope{data=domain.MedicalRecord}
// @Failure      400    {object}  map[string]any
// @Failure      404    {object}  map[string]any
// @Router       /api/v1/medical-records/{id}/attachments/batch [post]
func (h *RecordHandler) AttachBatch(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return &ValidationError{Messages: []string{"multipart form is required"}}
	}
	fhs := form.File["files"]
	if len(fhs) == 0 {
		return &ValidationError{Messages: []string{"at least one file is required"}}
	}

	uploads := make([]ports.UploadInput, 0, len(fhs))
	var closers []func()
	defer func() {
		for _, fn := range closers {
			fn()
		}
	}()
	for _, fh := range fhs {
		upload, closeFn, err := openUpload(fh, actor.ID)
		if err != nil {
			return err
		}
		closers = append(closers, closeFn)
		uploads = append(uploads, upload)
	}

	record, err := h.service.Attach(c.Request().Context(), c.Param("id"), uploads)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "attachments stored", record)
}

func openUpload(fh *multipart.FileHeader, uploadedBy string) (ports.UploadInput, func(), error) {
	if fh.Size > maxAttachmentBytes {
		return ports.UploadInput{}, nil, &ValidationError{Messages: []string{fh.Filename + " exceeds the 16MB attachment limit"}}
	}
	src, err := fh.Open()
	if err != nil {
		return ports.UploadInput{}, nil, err
	}
	return ports.UploadInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		SizeBytes:   fh.Size,
		Content:     src,
		UploadedBy:  uploadedBy,
	}, func() { src.Close() }, nil
}
