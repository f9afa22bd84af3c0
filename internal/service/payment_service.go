package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/lock"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/observability"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
)

// DefaultGatewayMode labels ledger transactions created from gateway payments.
const DefaultGatewayMode = "Online (Gateway)"

// PaymentService applies verified gateway payments to student ledgers.
type PaymentService interface {
	Apply(ctx context.Context, userID uint, req dto.VerifyPaymentRequest) (dto.PaymentResponse, error)
	History(ctx context.Context, userID uint) ([]dto.PaymentResponse, error)
}

type paymentService struct {
	store     *ledgerStore
	payments  repository.PaymentRepository
	library   repository.LibraryRepository
	exams     repository.ExamNotificationRepository
	notifier  PaymentNotifier
	validator *validator.Validate
	mode      string
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewPaymentService constructs the payment service. An empty mode falls back to
// DefaultGatewayMode.
func NewPaymentService(
	students repository.StudentRepository,
	payments repository.PaymentRepository,
	library repository.LibraryRepository,
	exams repository.ExamNotificationRepository,
	locker lock.Locker,
	notifier PaymentNotifier,
	validate *validator.Validate,
	mode string,
	logger zerolog.Logger,
) PaymentService {
	scoped := logger.With().Str("component", "payment_service").Logger()
	if strings.TrimSpace(mode) == "" {
		mode = DefaultGatewayMode
	}
	if notifier == nil {
		notifier = NewLogPaymentNotifier(logger)
	}
	return &paymentService{
		store:     newLedgerStore(students, locker, scoped),
		payments:  payments,
		library:   library,
		exams:     exams,
		notifier:  notifier,
		validator: validate,
		mode:      mode,
		logger:    scoped,
		tracer:    otel.Tracer("github.com/noah-isme/campus-ledger-api/internal/service/payment"),
	}
}

// Apply stores the receipt as received so the unique gateway payment id guards against
// double counting, then distributes it and completes the receipt in one write. A
// receipt left received by a failed attempt is resumed when the same student retries.
func (s *paymentService) Apply(ctx context.Context, userID uint, req dto.VerifyPaymentRequest) (dto.PaymentResponse, error) {
	const op = "ApplyGatewayPayment"

	ctx, span := s.tracer.Start(ctx, "payment.apply")
	span.SetAttributes(
		attribute.String("payment.type", req.PaymentType),
		attribute.Int64("payment.amount", req.Amount),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		failSpan(span, err, "validation_failed")
		return dto.PaymentResponse{}, err
	}
	paymentType := models.PaymentType(req.PaymentType)
	feeType, distributes := paymentType.FeeType()

	student, err := s.store.students.GetByUserID(ctx, userID)
	if err != nil {
		err = studentLookupError(op, err)
		failSpan(span, err, "student_lookup_failed")
		return dto.PaymentResponse{}, err
	}
	span.SetAttributes(attribute.String("student.usn", student.USN))

	payment, resumed, err := s.pendingPayment(ctx, op, student.ID, paymentType, req)
	if err != nil {
		failSpan(span, err, "duplicate_check_failed")
		return dto.PaymentResponse{}, err
	}
	span.SetAttributes(attribute.Bool("payment.resumed", resumed))

	if !resumed {
		if !distributes {
			if err := s.checkExamFee(ctx, op, student, req); err != nil {
				observability.GatewayPayments().WithLabelValues(string(paymentType), "blocked").Inc()
				failSpan(span, err, "exam_fee_rejected")
				return dto.PaymentResponse{}, err
			}
		}

		payment = models.Payment{
			StudentID:        student.ID,
			Amount:           req.Amount,
			PaymentType:      paymentType,
			GatewayOrderID:   req.OrderID,
			GatewayPaymentID: req.PaymentID,
			Status:           models.PaymentStatusReceived,
		}
		if !distributes {
			payment.Status = models.PaymentStatusCompleted
			payment.ExamNotificationID = req.ExamNotificationID
		}

		if err := s.payments.Create(ctx, &payment); err != nil {
			if errors.Is(err, repository.ErrDuplicatePayment) {
				observability.GatewayPayments().WithLabelValues(string(paymentType), "duplicate").Inc()
				return dto.PaymentResponse{}, ledger.Conflict(op, "payment already recorded")
			}
			failSpan(span, err, "persist_payment_failed")
			s.logger.Error().Err(err).Str("gateway_payment_id", req.PaymentID).Msg("failed to store payment")
			return dto.PaymentResponse{}, err
		}
	} else {
		s.logger.Info().Uint("payment_id", payment.ID).Str("usn", student.USN).Msg("resuming received payment")
	}

	var allocations []ledger.Allocation
	if distributes {
		apply := func(student *models.Student) error {
			var err error
			allocations, err = student.ApplyPayment(feeType, payment.Amount, s.mode, payment.GatewayPaymentID, s.store.now())
			return err
		}
		complete := func(ctx context.Context, student *models.Student) error {
			return s.store.students.SaveWithPayment(ctx, student, payment.ID, ledger.TotalAllocated(allocations))
		}

		if _, _, err := s.store.mutateByIDWith(ctx, op, student.USN, student.ID, apply, complete); err != nil {
			if errors.Is(err, repository.ErrPaymentApplied) {
				observability.GatewayPayments().WithLabelValues(string(paymentType), "duplicate").Inc()
				return dto.PaymentResponse{}, ledger.Conflict(op, "payment already recorded")
			}
			observability.GatewayPayments().WithLabelValues(string(paymentType), "apply_failed").Inc()
			failSpan(span, err, "apply_payment_failed")
			s.logger.Error().Err(err).Uint("payment_id", payment.ID).Str("usn", student.USN).Msg("payment received but not applied, a retry resumes it")
			return dto.PaymentResponse{}, err
		}

		payment.Allocated = ledger.TotalAllocated(allocations)
		payment.Status = models.PaymentStatusCompleted
	}

	observability.GatewayPayments().WithLabelValues(string(paymentType), "applied").Inc()
	observability.GatewayPaymentAmount().WithLabelValues(string(paymentType)).Add(float64(payment.Amount))
	span.SetAttributes(attribute.Int64("payment.allocated", payment.Allocated))

	notice := PaymentNotice{
		Recipient: student.Email,
		Name:      student.Name,
		USN:       student.USN,
		Amount:    payment.Amount,
		FeeType:   paymentType.Label(),
		Reference: payment.GatewayPaymentID,
		PaidAt:    s.store.now(),
	}
	if err := s.notifier.Notify(ctx, notice); err != nil {
		s.logger.Warn().Err(err).Str("usn", student.USN).Msg("failed to send payment notice")
	}

	resp := dto.NewPaymentResponse(payment)
	resp.Allocations = allocations
	return resp, nil
}

// pendingPayment looks up an earlier receipt for the gateway payment id. Only a
// received receipt of the same student, type and amount may be resumed.
func (s *paymentService) pendingPayment(ctx context.Context, op string, studentID uint, paymentType models.PaymentType, req dto.VerifyPaymentRequest) (models.Payment, bool, error) {
	existing, err := s.payments.GetByGatewayPaymentID(ctx, req.PaymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Payment{}, false, nil
	}
	if err != nil {
		return models.Payment{}, false, err
	}

	resumable := existing.Status == models.PaymentStatusReceived &&
		existing.StudentID == studentID &&
		existing.PaymentType == paymentType &&
		existing.Amount == req.Amount
	if !resumable {
		observability.GatewayPayments().WithLabelValues(string(paymentType), "duplicate").Inc()
		return models.Payment{}, false, ledger.Conflict(op, "payment already recorded")
	}
	return existing, true, nil
}

// checkExamFee blocks exam payments while library books are pending and requires an
// open notification visible to the student whose effective fee the amount covers.
func (s *paymentService) checkExamFee(ctx context.Context, op string, student models.Student, req dto.VerifyPaymentRequest) error {
	books, err := s.library.CountOutstanding(ctx, student.ID)
	if err != nil {
		return err
	}
	if books > 0 {
		return ledger.Validation(op, "exam fee cannot be paid while library books are pending")
	}

	if req.ExamNotificationID == nil {
		return ledger.Validation(op, "exam_notification_id is required for exam fees")
	}
	if s.exams == nil {
		return ledger.NotFound(op, "exam notification not found")
	}
	notification, err := s.exams.GetByID(ctx, *req.ExamNotificationID)
	if err != nil {
		return notificationLookupError(op, err)
	}

	now := s.store.now()
	if !notification.VisibleTo(student.CurrentYear) {
		return ledger.NotFound(op, "exam notification not found")
	}
	if !notification.Open(now) {
		return ledger.Conflict(op, "exam fee window is closed")
	}
	if fee := notification.EffectiveFee(now); req.Amount < fee {
		return ledger.Validation(op, fmt.Sprintf("exam fee due is %d", fee))
	}
	return nil
}

func (s *paymentService) History(ctx context.Context, userID uint) ([]dto.PaymentResponse, error) {
	student, err := s.store.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, studentLookupError("ListPayments", err)
	}

	payments, err := s.payments.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, dto.NewPaymentResponse(payment))
	}
	return responses, nil
}
