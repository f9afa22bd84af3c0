package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-ledger-api/internal/config"
	"github.com/noah-isme/campus-ledger-api/internal/handler"
	"github.com/noah-isme/campus-ledger-api/internal/middleware"
	"github.com/noah-isme/campus-ledger-api/internal/observability"
	"github.com/noah-isme/campus-ledger-api/internal/service"
)

// RoleExamHead manages exam notifications alongside admin.
const RoleExamHead = "exam_head"

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RegistrarHandler     *handler.RegistrarHandler
	DepartmentHandlers   map[service.Department]*handler.DepartmentHandler
	AdminFeeHandler      *handler.AdminFeeHandler
	AdminActivityHandler *handler.AdminActivityHandler
	PaymentHandler       *handler.PaymentHandler
	ExamHandler          *handler.ExamNotificationHandler
	JWTMiddleware        fiber.Handler
	VerifyLimiter        fiber.Handler
	HealthProbes         map[string]handler.HealthProbe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.RegistrarHandler != nil {
		registrar := api.Group("/registrar", jwtMiddleware, middleware.RequireRole("registrar", middleware.RoleAdmin))
		deps.RegistrarHandler.Register(registrar)
	}

	// One group per fee-owning office; admin may act on all of them.
	for _, dept := range service.Departments {
		h, ok := deps.DepartmentHandlers[dept]
		if !ok || h == nil {
			continue
		}
		group := api.Group("/"+string(dept), jwtMiddleware, middleware.RequireRole(dept.Role(), middleware.RoleAdmin))
		h.Register(group)
	}

	if deps.AdminFeeHandler != nil || deps.AdminActivityHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(middleware.RoleAdmin))
		if deps.AdminFeeHandler != nil {
			deps.AdminFeeHandler.Register(admin)
		}
		if deps.AdminActivityHandler != nil {
			deps.AdminActivityHandler.Register(admin.Group("/activity"))
		}
	}

	if deps.ExamHandler != nil {
		exams := api.Group("/exam-notifications", jwtMiddleware)
		deps.ExamHandler.Register(exams, middleware.RequireRole(RoleExamHead, middleware.RoleAdmin))
	}

	if deps.PaymentHandler != nil {
		payments := api.Group("/payments", jwtMiddleware, middleware.RequireRole(middleware.RoleStudent))
		if deps.VerifyLimiter != nil {
			payments.Use("/verify", deps.VerifyLimiter)
		}
		deps.PaymentHandler.Register(payments)
	}
}
