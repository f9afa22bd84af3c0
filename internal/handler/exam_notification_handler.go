package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/service"
	"github.com/noah-isme/campus-ledger-api/internal/utils"
)

// ExamNotificationHandler exposes exam announcements. Listing is open to every
// authenticated role; changes pass through the manage guard.
type ExamNotificationHandler struct {
	service service.ExamNotificationService
	logger  zerolog.Logger
}

// NewExamNotificationHandler constructs the handler.
func NewExamNotificationHandler(service service.ExamNotificationService, logger zerolog.Logger) *ExamNotificationHandler {
	return &ExamNotificationHandler{
		service: service,
		logger:  logger.With().Str("component", "exam_notification_handler").Logger(),
	}
}

// Register attaches exam notification routes to the router group.
func (h *ExamNotificationHandler) Register(router fiber.Router, manage fiber.Handler) {
	if manage == nil {
		manage = func(c *fiber.Ctx) error { return c.Next() }
	}
	router.Get("", h.list)
	router.Post("", manage, h.create)
	router.Put("/:id", manage, h.update)
	router.Delete("/:id", manage, h.delete)
}

func (h *ExamNotificationHandler) list(c *fiber.Ctx) error {
	var active *bool
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid is_active")
		}
		active = &parsed
	}

	notifications, err := h.service.List(c.UserContext(), activityActorFromContext(c), active)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list exam notifications")
	}
	return utils.SendSuccess(c, "exam notifications retrieved", notifications)
}

func (h *ExamNotificationHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateExamNotificationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	notification, err := h.service.Create(c.UserContext(), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to create exam notification")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exam notification created", notification)
}

func (h *ExamNotificationHandler) update(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	var payload dto.UpdateExamNotificationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	notification, err := h.service.Update(c.UserContext(), uint(id), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to update exam notification")
	}
	return utils.SendSuccess(c, "exam notification updated", notification)
}

func (h *ExamNotificationHandler) delete(c *fiber.Ctx) error {
	id, err := parseIntParam(c, "id")
	if err != nil || id <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	if err := h.service.Delete(c.UserContext(), uint(id), activityActorFromContext(c)); err != nil {
		return respondError(c, h.logger, err, "failed to delete exam notification")
	}
	return utils.SendSuccess(c, "exam notification removed", nil)
}
