package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/lock"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
)

// DepartmentService applies the manual ledger actions of the department desks and
// the administrator.
type DepartmentService interface {
	Update(ctx context.Context, dept Department, usn string, req dto.DepartmentUpdateRequest, actor ActivityActor) (dto.LedgerChangeResponse, error)
	OverrideDue(ctx context.Context, dept Department, usn string, req dto.OverrideDueRequest, actor ActivityActor) (dto.LedgerChangeResponse, error)
	MarkSemesterPaid(ctx context.Context, dept Department, usn string, req dto.MarkSemesterRequest, actor ActivityActor) (dto.LedgerChangeResponse, error)
	AssignAnnualFee(ctx context.Context, dept Department, usn string, req dto.AssignAnnualFeeRequest, actor ActivityActor) (dto.LedgerChangeResponse, error)
	AdminUpdate(ctx context.Context, usn string, req dto.AdminFeeUpdateRequest, actor ActivityActor) (dto.LedgerChangeResponse, error)
	Resync(ctx context.Context, usn string, actor ActivityActor) (dto.LedgerChangeResponse, error)
}

type departmentService struct {
	store     *ledgerStore
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(
	students repository.StudentRepository,
	locker lock.Locker,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) DepartmentService {
	scoped := logger.With().Str("component", "department_service").Logger()
	return &departmentService{
		store:     newLedgerStore(students, locker, scoped),
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		logger:    scoped,
	}
}

func (s *departmentService) Update(ctx context.Context, dept Department, usn string, req dto.DepartmentUpdateRequest, actor ActivityActor) (dto.LedgerChangeResponse, error) {
	const op = "DepartmentUpdate"

	if err := s.validator.Struct(req); err != nil {
		return dto.LedgerChangeResponse{}, err
	}
	feeType, err := departmentFeeType(op, dept)
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}
	if err := checkOptFlags(op, dept, req); err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	var resp dto.LedgerChangeResponse
	student, changed, err := s.store.mutateByUSN(ctx, op, normalizeUSN(usn), func(student *models.Student) error {
		now := s.store.now()
		applied := false

		if req.TransportOpted != nil {
			student.TransportOpted = *req.TransportOpted
			applied = true
		}
		if req.TransportRoute != nil {
			student.TransportRoute = sanitizeText(s.sanitizer, *req.TransportRoute)
			applied = true
		}
		if req.HostelOpted != nil {
			student.HostelOpted = *req.HostelOpted
			applied = true
		}
		if req.PlacementOpted != nil {
			student.PlacementOpted = *req.PlacementOpted
			applied = true
		}

		if req.AnnualFee != nil {
			year := student.CurrentYear
			if req.Year != nil {
				year = *req.Year
			}
			if err := student.AssignAnnualFee(feeType, year, *req.AnnualFee); err != nil {
				return err
			}
			applied = true
		}

		if req.Due != nil {
			result, err := student.OverrideDue(feeType, *req.Due, dept.Mode(), s.overrideReference(dept, req.Reference, *req.Due), now)
			if err != nil {
				return err
			}
			resp.Overrides = append(resp.Overrides, result)
			applied = true
		}

		if req.MarkSemPaid != nil {
			paid, err := student.MarkSemesterPaid(feeType, *req.MarkSemPaid, dept.Mode(), now)
			if err != nil {
				return err
			}
			if paid == 0 {
				resp.AlreadySettled = true
			} else {
				resp.SemesterPaid = paid
				applied = true
			}
		}

		if !applied {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	resp.Student = dto.NewStudentResponse(student)
	resp.Changed = changed
	if changed {
		s.audit(ctx, actor, "ledger.department_updated", student, map[string]interface{}{
			"department":    string(dept),
			"fee_type":      string(feeType),
			"semester_paid": resp.SemesterPaid,
			"overrides":     len(resp.Overrides),
		})
	}
	return resp, nil
}

func (s *departmentService) OverrideDue(ctx context.Context, dept Department, usn string, req dto.OverrideDueRequest, actor ActivityActor) (dto.LedgerChangeResponse, error) {
	const op = "OverrideDue"

	if err := s.validator.Struct(req); err != nil {
		return dto.LedgerChangeResponse{}, err
	}
	feeType, err := departmentFeeType(op, dept)
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	var result ledger.OverrideResult
	student, _, err := s.store.mutateByUSN(ctx, op, normalizeUSN(usn), func(student *models.Student) error {
		var err error
		result, err = student.OverrideDue(feeType, *req.Due, dept.Mode(), s.overrideReference(dept, req.Reference, *req.Due), s.store.now())
		return err
	})
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	s.audit(ctx, actor, "ledger.due_overridden", student, map[string]interface{}{
		"department": string(dept),
		"fee_type":   string(feeType),
		"previous":   result.Previous,
		"current":    result.Current,
		"cleared":    result.Cleared,
		"adjustment": result.Adjustment,
	})

	return dto.LedgerChangeResponse{
		Student:   dto.NewStudentResponse(student),
		Overrides: []ledger.OverrideResult{result},
		Changed:   true,
	}, nil
}

func (s *departmentService) MarkSemesterPaid(ctx context.Context, dept Department, usn string, req dto.MarkSemesterRequest, actor ActivityActor) (dto.LedgerChangeResponse, error) {
	const op = "MarkSemesterPaid"

	if err := s.validator.Struct(req); err != nil {
		return dto.LedgerChangeResponse{}, err
	}
	feeType, err := departmentFeeType(op, dept)
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	var paid int64
	student, changed, err := s.store.mutateByUSN(ctx, op, normalizeUSN(usn), func(student *models.Student) error {
		var err error
		paid, err = student.MarkSemesterPaid(feeType, req.Semester, dept.Mode(), s.store.now())
		if err != nil {
			return err
		}
		if paid == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	if changed {
		s.audit(ctx, actor, "ledger.semester_paid", student, map[string]interface{}{
			"department": string(dept),
			"fee_type":   string(feeType),
			"semester":   req.Semester,
			"amount":     paid,
		})
	}

	return dto.LedgerChangeResponse{
		Student:        dto.NewStudentResponse(student),
		SemesterPaid:   paid,
		AlreadySettled: !changed,
		Changed:        changed,
	}, nil
}

func (s *departmentService) AssignAnnualFee(ctx context.Context, dept Department, usn string, req dto.AssignAnnualFeeRequest, actor ActivityActor) (dto.LedgerChangeResponse, error) {
	const op = "AssignAnnualFee"

	if err := s.validator.Struct(req); err != nil {
		return dto.LedgerChangeResponse{}, err
	}
	feeType, err := departmentFeeType(op, dept)
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	year := req.Year
	student, _, err := s.store.mutateByUSN(ctx, op, normalizeUSN(usn), func(student *models.Student) error {
		if year == 0 {
			year = student.CurrentYear
		}
		return student.AssignAnnualFee(feeType, year, *req.Amount)
	})
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	s.audit(ctx, actor, "ledger.annual_fee_assigned", student, map[string]interface{}{
		"department": string(dept),
		"fee_type":   string(feeType),
		"year":       year,
		"amount":     *req.Amount,
	})

	return dto.LedgerChangeResponse{Student: dto.NewStudentResponse(student), Changed: true}, nil
}

// AdminUpdate applies the administrator's composite edit in a fixed order: record
// payment, due overrides, annual baselines, then the remaining scalar fields.
func (s *departmentService) AdminUpdate(ctx context.Context, usn string, req dto.AdminFeeUpdateRequest, actor ActivityActor) (dto.LedgerChangeResponse, error) {
	const op = "AdminFeeUpdate"

	if err := s.validator.Struct(req); err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	mode := sanitizeText(s.sanitizer, req.Mode)
	if mode == "" {
		mode = ModeManual
	}
	reference := sanitizeText(s.sanitizer, req.Reference)
	overrides := req.DueOverrides()
	baselines := req.AnnualBaselines()

	var resp dto.LedgerChangeResponse
	student, changed, err := s.store.mutateByUSN(ctx, op, normalizeUSN(usn), func(student *models.Student) error {
		now := s.store.now()
		applied := false

		if req.Amount != nil {
			ref := reference
			if ref == "" {
				ref = "Admin Payment"
			}
			if _, err := student.PayRecord(req.FeeRecordID, *req.Amount, mode, ref, now); err != nil {
				return err
			}
			applied = true
		}

		for _, feeType := range ledger.DueCategories {
			due, ok := overrides[feeType]
			if !ok {
				continue
			}
			result, err := student.OverrideDue(feeType, due, ModeManual, s.overrideReference(DepartmentAdmin, reference, due), now)
			if err != nil {
				return err
			}
			resp.Overrides = append(resp.Overrides, result)
			applied = true
		}

		for _, feeType := range ledger.DueCategories {
			if amount, ok := baselines[feeType]; ok {
				student.Annual.Set(feeType, amount)
				applied = true
			}
		}

		if req.LastSemDues != nil {
			student.LastSemDues = *req.LastSemDues
			applied = true
		}
		if req.Status != nil {
			student.Status = ledger.Lifecycle(*req.Status)
			applied = true
		}
		if req.TransportOpted != nil {
			student.TransportOpted = *req.TransportOpted
			applied = true
		}
		switch {
		case req.ClearEligibilityOverride:
			student.EligibilityOverride = nil
			applied = true
		case req.EligibilityOverride != nil:
			override := *req.EligibilityOverride
			student.EligibilityOverride = &override
			applied = true
		}

		if !applied {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	resp.Student = dto.NewStudentResponse(student)
	resp.Changed = changed
	if changed {
		metadata := map[string]interface{}{
			"overrides": len(resp.Overrides),
			"baselines": len(baselines),
		}
		if req.Amount != nil {
			metadata["fee_record_id"] = req.FeeRecordID
			metadata["amount"] = *req.Amount
		}
		if req.Status != nil {
			metadata["status"] = *req.Status
		}
		s.audit(ctx, actor, "ledger.admin_updated", student, metadata)
	}
	return resp, nil
}

func (s *departmentService) Resync(ctx context.Context, usn string, actor ActivityActor) (dto.LedgerChangeResponse, error) {
	var before ledger.Dues
	student, changed, err := s.store.mutateByUSN(ctx, "Resync", normalizeUSN(usn), func(student *models.Student) error {
		before = student.Dues
		student.Resync()
		if student.Dues == before {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return dto.LedgerChangeResponse{}, err
	}

	if changed {
		s.audit(ctx, actor, "ledger.resynced", student, map[string]interface{}{
			"previous_total": before.Total(),
			"current_total":  student.TotalDue(),
		})
	}
	return dto.LedgerChangeResponse{Student: dto.NewStudentResponse(student), Changed: changed}, nil
}

func (s *departmentService) overrideReference(dept Department, given string, due int64) string {
	if ref := sanitizeText(s.sanitizer, given); ref != "" {
		return ref
	}
	switch {
	case due == 0 && dept == DepartmentAdmin:
		return "Admin Marked Paid"
	case due == 0:
		return fmt.Sprintf("Marked as Paid by %s", dept.Mode())
	default:
		return "Fee Adjustment"
	}
}

func (s *departmentService) audit(ctx context.Context, actor ActivityActor, action string, student models.Student, metadata map[string]interface{}) {
	studentID := student.ID
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "student",
		EntityID:   &studentID,
		EntityKey:  student.USN,
		Metadata:   metadata,
	})
}

func departmentFeeType(op string, dept Department) (ledger.FeeType, error) {
	feeType, ok := dept.FeeType()
	if !ok {
		return "", ledger.Validation(op, fmt.Sprintf("department %q does not own a fee category", dept))
	}
	return feeType, nil
}

func checkOptFlags(op string, dept Department, req dto.DepartmentUpdateRequest) error {
	if (req.TransportOpted != nil || req.TransportRoute != nil) && dept != DepartmentTransport {
		return ledger.Validation(op, "transport opt-in can only be changed by the transport department")
	}
	if req.HostelOpted != nil && dept != DepartmentHostel {
		return ledger.Validation(op, "hostel opt-in can only be changed by the hostel office")
	}
	if req.PlacementOpted != nil && dept != DepartmentPlacement {
		return ledger.Validation(op, "placement opt-in can only be changed by the placement office")
	}
	return nil
}
