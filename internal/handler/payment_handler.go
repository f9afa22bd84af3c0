package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/gateway"
	"github.com/noah-isme/campus-ledger-api/internal/service"
	"github.com/noah-isme/campus-ledger-api/internal/utils"
)

// PaymentHandler exposes the student-facing ledger and gateway endpoints.
type PaymentHandler struct {
	payments service.PaymentService
	students service.StudentService
	verifier *gateway.Verifier
	logger   zerolog.Logger
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(payments service.PaymentService, students service.StudentService, verifier *gateway.Verifier, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		students: students,
		verifier: verifier,
		logger:   logger.With().Str("component", "payment_handler").Logger(),
	}
}

// Register attaches payment routes to the router group.
func (h *PaymentHandler) Register(router fiber.Router) {
	router.Get("/me", h.ledger)
	router.Get("/me/eligibility", h.eligibility)
	router.Get("/history", h.history)
	router.Post("/verify", h.verify)
}

func (h *PaymentHandler) ledger(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	student, err := h.students.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch ledger")
	}
	return utils.SendSuccess(c, "ledger retrieved", student)
}

func (h *PaymentHandler) eligibility(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	student, err := h.students.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute eligibility")
	}
	verdict, err := h.students.Eligibility(c.UserContext(), student.USN)
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute eligibility")
	}
	return utils.SendSuccess(c, "eligibility computed", verdict)
}

func (h *PaymentHandler) history(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payments, err := h.payments.History(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list payments")
	}
	return utils.SendSuccess(c, "payments retrieved", payments)
}

func (h *PaymentHandler) verify(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload dto.VerifyPaymentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if h.verifier != nil {
		if err := h.verifier.Verify(payload.OrderID, payload.PaymentID, payload.Signature); err != nil {
			if errors.Is(err, gateway.ErrInvalidSignature) {
				requestLogger(h.logger, c).Warn().Str("gateway_order_id", payload.OrderID).Msg("rejected gateway payment with invalid signature")
				return utils.SendError(c, fiber.StatusBadRequest, err.Error())
			}
			return respondError(c, h.logger, err, "failed to verify payment")
		}
	}

	payment, err := h.payments.Apply(c.UserContext(), userID, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to record payment")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "payment recorded", payment)
}
