package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /api/v1/auth/login.
//
// @Summary      Authenticate with email or employee id
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope{data=loginResponse}
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.Login(c.Request().Context(), ports.LoginInput{
		Email:      req.Email,
		EmployeeID: req.EmployeeID,
		Password:   req.Password,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "login successful", loginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         toUserResponse(result.User),
	})
}

// Register handles POST /api/v1/auth/register and POST /api/v1/staff.
// Admin only.
//
// @Summary      Create a staff account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "New staff member"
// @Success      201   {object}  envelope{data=userResponse}
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/v1/auth/register [post]
// @Router       /api/v1/staff [post]
func (h *AuthHandler) Register(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		EmployeeID:     req.EmployeeID,
		Phone:          req.Phone,
		Password:       req.Password,
		Role:           domain.Role(req.Role),
		Department:     req.Department,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
		CreatedBy:      actor.ID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "user registered", toUserResponse(user))
}

// Refresh handles POST /api/v1/auth/refresh.
//
// @Summary      Exchange a refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  envelope{data=refreshResponse}
// @Failure      401   {object}  map[string]any
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	accessToken, err := h.service.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "token refreshed", refreshResponse{AccessToken: accessToken})
}

// Logout handles POST /api/v1/auth/logout. The refresh token's jti is revoked
// for its remaining lifetime; logging out with an already-expired token is a
// no-op.
//
// @Summary      Revoke a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      logoutRequest  true  "Refresh token to revoke"
// @Success      200   {object}  envelope
// @Failure      401   {object}  map[string]any
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "logged out", nil)
}

// ChangePassword handles PUT /api/v1/auth/change-password.
//
// @Summary      Change the authenticated user's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/v1/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.ChangePassword(c.Request().Context(), actor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "password changed", nil)
}

// Me handles GET /api/v1/auth/profile.
//
// @Summary      Return the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=userResponse}
// @Failure      401  {object}  map[string]any
// @Router       /api/v1/auth/profile [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", toUserResponse(actor))
}
