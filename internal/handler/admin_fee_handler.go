package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/service"
	"github.com/noah-isme/campus-ledger-api/internal/utils"
)

// AdminFeeHandler exposes the administrator's ledger, assignment and promotion endpoints.
type AdminFeeHandler struct {
	students    service.StudentService
	departments service.DepartmentService
	fees        service.FeeAssignmentService
	promotions  service.PromotionService
	logger      zerolog.Logger
}

// NewAdminFeeHandler constructs the handler.
func NewAdminFeeHandler(
	students service.StudentService,
	departments service.DepartmentService,
	fees service.FeeAssignmentService,
	promotions service.PromotionService,
	logger zerolog.Logger,
) *AdminFeeHandler {
	return &AdminFeeHandler{
		students:    students,
		departments: departments,
		fees:        fees,
		promotions:  promotions,
		logger:      logger.With().Str("component", "admin_fee_handler").Logger(),
	}
}

// Register attaches admin routes to the router group.
func (h *AdminFeeHandler) Register(router fiber.Router) {
	router.Get("/students", h.listByYear)
	router.Get("/students/search", h.search)
	router.Get("/students/:usn", h.get)
	router.Patch("/students/:usn/fees", h.updateFees)
	router.Post("/students/:usn/resync", h.resync)
	router.Get("/config", h.config)
	router.Post("/fees/assign", h.assign)
	router.Post("/promotions", h.promote)
}

func (h *AdminFeeHandler) listByYear(c *fiber.Ctx) error {
	year, err := parseQueryInt(c, "year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}

	students, err := h.students.ListActiveByYear(c.UserContext(), year)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list students")
	}
	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *AdminFeeHandler) search(c *fiber.Ctx) error {
	student, err := h.students.Search(c.UserContext(), c.Query("usn"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to search students")
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *AdminFeeHandler) get(c *fiber.Ctx) error {
	student, err := h.students.GetByUSN(c.UserContext(), c.Params("usn"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch student")
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *AdminFeeHandler) updateFees(c *fiber.Ctx) error {
	var payload dto.AdminFeeUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.departments.AdminUpdate(c.UserContext(), c.Params("usn"), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to update student fees")
	}
	return utils.SendSuccess(c, changeMessage(result, "student fees updated"), result)
}

func (h *AdminFeeHandler) resync(c *fiber.Ctx) error {
	result, err := h.departments.Resync(c.UserContext(), c.Params("usn"), activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to resync dues")
	}
	return utils.SendSuccess(c, changeMessage(result, "dues resynced"), result)
}

func (h *AdminFeeHandler) config(c *fiber.Ctx) error {
	cfg, err := h.fees.GetSystemConfig(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to load system config")
	}
	return utils.SendSuccess(c, "system config", cfg)
}

func (h *AdminFeeHandler) assign(c *fiber.Ctx) error {
	var payload dto.FeeAssignmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.fees.Assign(c.UserContext(), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to assign fees")
	}
	return utils.SendSuccess(c, "fees assigned", result)
}

func (h *AdminFeeHandler) promote(c *fiber.Ctx) error {
	var payload dto.PromotionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	summary, err := h.promotions.Promote(c.UserContext(), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to promote students")
	}
	return utils.SendSuccess(c, "promotion completed", summary)
}
