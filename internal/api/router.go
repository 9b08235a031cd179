package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinicore/emr-system/internal/api/handler"
	"github.com/clinicore/emr-system/internal/api/middleware"
	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// Deps carries everything the router needs. Services are constructed in main
// and injected here so the HTTP layer stays wiring-only.
type Deps struct {
	Log zerolog.Logger

	Mongo *mongo.Database
	Redis *redis.Client

	Tokens       ports.TokenService
	Users        ports.UserRepository
	Auth         ports.AuthService
	Patients     ports.PatientService
	Appointments ports.AppointmentService
	Records      ports.RecordService
	Staff        ports.StaffService
	Sequences    ports.SequenceRepository
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("emr"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	patientHandler := handler.NewPatientHandler(d.Patients)
	appointmentHandler := handler.NewAppointmentHandler(d.Appointments)
	recordHandler := handler.NewRecordHandler(d.Records)
	staffHandler := handler.NewStaffHandler(d.Staff)
	adminHandler := handler.NewAdminHandler(d.Sequences)

	authn := middleware.Auth(d.Tokens, d.Users)
	idParam := middleware.ValidateIDParam()

	// Ownership loader for medical records: who created it and which
	// department it belongs to.
	recordOwnership := func(ctx context.Context, id string) (*middleware.Owned, error) {
		record, err := d.Records.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return &middleware.Owned{CreatedBy: record.CreatedBy, Department: record.Department}, nil
	}

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	v1 := e.Group("/api/v1")

	// --- Auth ---
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/register", authHandler.Register, authn,
		middleware.RequireRoles(d.Log, domain.RoleAdmin))
	auth.GET("/profile", authHandler.Me, authn)
	auth.POST("/logout", authHandler.Logout, authn)
	auth.PUT("/change-password", authHandler.ChangePassword, authn)

	// --- Patients ---
	patients := v1.Group("/patients", authn)
	patients.GET("", patientHandler.List,
		middleware.RequirePermission(d.Log, domain.PermissionViewPatients))
	patients.POST("", patientHandler.Create,
		middleware.RequirePermission(d.Log, domain.PermissionEditPatients))
	patients.GET("/:id", patientHandler.Get, idParam,
		middleware.RequirePermission(d.Log, domain.PermissionViewPatients))
	patients.PUT("/:id", patientHandler.Update, idParam,
		middleware.RequirePermission(d.Log, domain.PermissionEditPatients))
	patients.DELETE("/:id", patientHandler.Delete, idParam,
		middleware.RequireRoles(d.Log, domain.RoleAdmin))

	// --- Appointments ---
	appointments := v1.Group("/appointments", authn)
	appointments.GET("", appointmentHandler.List,
		middleware.RequirePermission(d.Log, domain.PermissionViewAppointments))
	appointments.GET("/today", appointmentHandler.Today,
		middleware.RequirePermission(d.Log, domain.PermissionViewAppointments))
	appointments.POST("", appointmentHandler.Create,
		middleware.RequirePermission(d.Log, domain.PermissionManageAppointments))
	appointments.GET("/:id", appointmentHandler.Get, idParam,
		middleware.RequirePermission(d.Log, domain.PermissionViewAppointments))
	appointments.PUT("/:id", appointmentHandler.Update, idParam,
		middleware.RequirePermission(d.Log, domain.PermissionManageAppointments))
	appointments.DELETE("/:id", appointmentHandler.Cancel, idParam,
		middleware.RequirePermission(d.Log, domain.PermissionManageAppointments))

	// --- Medical records ---
	records := v1.Group("/medical-records", authn)
	records.GET("", recordHandler.List,
		middleware.RequirePermission(d.Log, domain.PermissionViewRecords))
	records.POST("", recordHandler.Create,
		middleware.RequireRoles(d.Log, domain.RoleDoctor, domain.RoleNurse))
	records.GET("/:id", recordHandler.Get, idParam,
		middleware.RequirePermission(d.Log, domain.PermissionViewRecords),
		middleware.RequireOwnership(d.Log, recordOwnership))
	records.PUT("/:id", recordHandler.Update, idParam,
		middleware.RequireRoles(d.Log, domain.RoleDoctor, domain.RoleNurse))
	records.DELETE("/:id", recordHandler.Delete, idParam,
		middleware.RequireRoles(d.Log, domain.RoleAdmin))
	records.POST("/:id/attachments", recordHandler.Attach, idParam,
		middleware.RequireRoles(d.Log, domain.RoleDoctor, domain.RoleNurse))
	records.POST("/:id/attachments/batch", recordHandler.AttachBatch, idParam,
		middleware.RequireRoles(d.Log, domain.RoleDoctor, domain.RoleNurse))

	// --- Staff (admin only) ---
	staff := v1.Group("/staff", authn, middleware.RequireRoles(d.Log, domain.RoleAdmin))
	staff.GET("", staffHandler.List)
	// Account creation shares the register flow.
	staff.POST("", authHandler.Register)
	staff.GET("/:id", staffHandler.Get, idParam)
	staff.PUT("/:id", staffHandler.Update, idParam)
	staff.DELETE("/:id", staffHandler.Delete, idParam)

	// --- Admin ---
	admin := v1.Group("/admin", authn, middleware.RequireRoles(d.Log, domain.RoleAdmin))
	admin.GET("/sequences/:name", adminHandler.GetSequence)
	admin.POST("/sequences/:name/reset", adminHandler.ResetSequence)

	return e
}
