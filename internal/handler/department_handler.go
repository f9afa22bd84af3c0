package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/service"
	"github.com/noah-isme/campus-ledger-api/internal/utils"
)

// DepartmentHandler exposes the desk endpoints of one fee-owning department.
type DepartmentHandler struct {
	department  service.Department
	departments service.DepartmentService
	students    service.StudentService
	logger      zerolog.Logger
}

// NewDepartmentHandler constructs a handler bound to department.
func NewDepartmentHandler(department service.Department, departments service.DepartmentService, students service.StudentService, logger zerolog.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		department:  department,
		departments: departments,
		students:    students,
		logger:      logger.With().Str("component", "department_handler").Str("department", string(department)).Logger(),
	}
}

// Register attaches department routes to the router group.
func (h *DepartmentHandler) Register(router fiber.Router) {
	router.Get("/students/search", h.search)
	router.Get("/students/:usn", h.get)
	router.Patch("/students/:usn", h.update)
	router.Put("/students/:usn/due", h.overrideDue)
	router.Post("/students/:usn/semesters/:semester/paid", h.markSemesterPaid)
	router.Put("/students/:usn/annual-fee", h.assignAnnualFee)
}

func (h *DepartmentHandler) search(c *fiber.Ctx) error {
	student, err := h.students.Search(c.UserContext(), c.Query("usn"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to search students")
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *DepartmentHandler) get(c *fiber.Ctx) error {
	student, err := h.students.GetByUSN(c.UserContext(), c.Params("usn"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch student")
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *DepartmentHandler) update(c *fiber.Ctx) error {
	var payload dto.DepartmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.departments.Update(c.UserContext(), h.department, c.Params("usn"), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to update student fees")
	}
	return utils.SendSuccess(c, changeMessage(result, "student fees updated"), result)
}

func (h *DepartmentHandler) overrideDue(c *fiber.Ctx) error {
	var payload dto.OverrideDueRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.departments.OverrideDue(c.UserContext(), h.department, c.Params("usn"), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to override due")
	}
	return utils.SendSuccess(c, "due updated", result)
}

func (h *DepartmentHandler) markSemesterPaid(c *fiber.Ctx) error {
	semester, err := parseIntParam(c, "semester")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	result, err := h.departments.MarkSemesterPaid(c.UserContext(), h.department, c.Params("usn"), dto.MarkSemesterRequest{Semester: semester}, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to mark semester paid")
	}
	return utils.SendSuccess(c, changeMessage(result, "semester marked as paid"), result)
}

func (h *DepartmentHandler) assignAnnualFee(c *fiber.Ctx) error {
	var payload dto.AssignAnnualFeeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.departments.AssignAnnualFee(c.UserContext(), h.department, c.Params("usn"), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to assign annual fee")
	}
	return utils.SendSuccess(c, "annual fee assigned", result)
}

func changeMessage(result dto.LedgerChangeResponse, changed string) string {
	switch {
	case result.Changed:
		return changed
	case result.AlreadySettled:
		return "semester already settled"
	default:
		return "no changes applied"
	}
}
