package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/service"
	"github.com/noah-isme/campus-ledger-api/internal/utils"
)

// RegistrarHandler exposes enrolment endpoints.
type RegistrarHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewRegistrarHandler constructs the handler.
func NewRegistrarHandler(service service.StudentService, logger zerolog.Logger) *RegistrarHandler {
	return &RegistrarHandler{
		service: service,
		logger:  logger.With().Str("component", "registrar_handler").Logger(),
	}
}

// Register attaches registrar routes to the router group.
func (h *RegistrarHandler) Register(router fiber.Router) {
	router.Post("/students", h.create)
	router.Get("/students/search", h.search)
	router.Get("/students/:usn", h.get)
	router.Get("/students/:usn/eligibility", h.eligibility)
}

func (h *RegistrarHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Create(c.UserContext(), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to create student")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *RegistrarHandler) search(c *fiber.Ctx) error {
	student, err := h.service.Search(c.UserContext(), c.Query("usn"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to search students")
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *RegistrarHandler) get(c *fiber.Ctx) error {
	student, err := h.service.GetByUSN(c.UserContext(), c.Params("usn"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch student")
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *RegistrarHandler) eligibility(c *fiber.Ctx) error {
	verdict, err := h.service.Eligibility(c.UserContext(), c.Params("usn"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute eligibility")
	}
	return utils.SendSuccess(c, "eligibility computed", verdict)
}
