package handler

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/core/ports"
)

// sequenceNamePattern matches the names the sequence collection uses, e.g.
// "patient_2026".
var sequenceNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// AdminHandler handles administrative operations outside the normal CRUD
// surface. All routes are admin-gated.
type AdminHandler struct {
	sequences ports.SequenceRepository
}

func NewAdminHandler(sequences ports.SequenceRepository) *AdminHandler {
	return &AdminHandler{sequences: sequences}
}

type sequenceResponse struct {
	Name    string `json:"name"`
	Current int64  `json:"current"`
}

// GetSequence handles GET /api/v1/admin/sequences/:name.
//
// @Summary      Peek at a sequence counter
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Sequence name (e.g. patient_2026)"
// @Success      200   {object}  envelope{data=sequenceResponse}
// @Failure      400   {object}  map[string]any
// @Router       /api/v1/admin/sequences/{name} [get]
func (h *AdminHandler) GetSequence(c echo.Context) error {
	name := c.Param("name")
	if !sequenceNamePattern.MatchString(name) {
		return &ValidationError{Messages: []string{"name must be a lowercase identifier"}}
	}

	current, err := h.sequences.Current(c.Request().Context(), name)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", sequenceResponse{Name: name, Current: current})
}

// ResetSequence handles POST /api/v1/admin/sequences/:name/reset. Intended for
// the start-of-year rollover; identifiers minted afterwards restart at 1.
//
// @Summary      Reset a sequence counter to zero
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Sequence name (e.g. patient_2026)"
// @Success      200   {object}  envelope{data=sequenceResponse}
// @Failure      400   {object}  map[string]any
// @Router       /api/v1/admin/sequences/{name}/reset [post]
func (h *AdminHandler) ResetSequence(c echo.Context) error {
	name := c.Param("name")
	if !sequenceNamePattern.MatchString(name) {
		return &ValidationError{Messages: []string{"name must be a lowercase identifier"}}
	}

	if err := h.sequences.Reset(c.Request().Context(), name); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "sequence reset", sequenceResponse{Name: name, Current: 0})
}
