package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/service"
)

type mockStudentService struct {
	lastCreate dto.CreateStudentRequest
	lastActor  service.ActivityActor
	lastUSN    string
	lastUserID uint
	student    dto.StudentResponse
	verdict    dto.EligibilityResponse
	err        error
}

func (m *mockStudentService) Create(_ context.Context, req dto.CreateStudentRequest, actor service.ActivityActor) (dto.StudentResponse, error) {
	m.lastCreate = req
	m.lastActor = actor
	return m.student, m.err
}

func (m *mockStudentService) GetByUSN(_ context.Context, usn string) (dto.StudentResponse, error) {
	m.lastUSN = usn
	return m.student, m.err
}

func (m *mockStudentService) GetByUserID(_ context.Context, userID uint) (dto.StudentResponse, error) {
	m.lastUserID = userID
	return m.student, m.err
}

func (m *mockStudentService) Search(_ context.Context, query string) (dto.StudentResponse, error) {
	m.lastUSN = query
	return m.student, m.err
}

func (m *mockStudentService) ListActiveByYear(context.Context, int) ([]dto.StudentSummary, error) {
	return nil, m.err
}

func (m *mockStudentService) Eligibility(_ context.Context, usn string) (dto.EligibilityResponse, error) {
	m.lastUSN = usn
	return m.verdict, m.err
}

type mockDepartmentService struct {
	lastDept     service.Department
	lastUSN      string
	lastSemester int
	lastActor    service.ActivityActor
	result       dto.LedgerChangeResponse
	err          error
}

func (m *mockDepartmentService) record(dept service.Department, usn string, actor service.ActivityActor) (dto.LedgerChangeResponse, error) {
	m.lastDept = dept
	m.lastUSN = usn
	m.lastActor = actor
	return m.result, m.err
}

func (m *mockDepartmentService) Update(_ context.Context, dept service.Department, usn string, _ dto.DepartmentUpdateRequest, actor service.ActivityActor) (dto.LedgerChangeResponse, error) {
	return m.record(dept, usn, actor)
}

func (m *mockDepartmentService) OverrideDue(_ context.Context, dept service.Department, usn string, _ dto.OverrideDueRequest, actor service.ActivityActor) (dto.LedgerChangeResponse, error) {
	return m.record(dept, usn, actor)
}

func (m *mockDepartmentService) MarkSemesterPaid(_ context.Context, dept service.Department, usn string, req dto.MarkSemesterRequest, actor service.ActivityActor) (dto.LedgerChangeResponse, error) {
	m.lastSemester = req.Semester
	return m.record(dept, usn, actor)
}

func (m *mockDepartmentService) AssignAnnualFee(_ context.Context, dept service.Department, usn string, _ dto.AssignAnnualFeeRequest, actor service.ActivityActor) (dto.LedgerChangeResponse, error) {
	return m.record(dept, usn, actor)
}

func (m *mockDepartmentService) AdminUpdate(_ context.Context, usn string, _ dto.AdminFeeUpdateRequest, actor service.ActivityActor) (dto.LedgerChangeResponse, error) {
	return m.record(service.DepartmentAdmin, usn, actor)
}

func (m *mockDepartmentService) Resync(_ context.Context, usn string, actor service.ActivityActor) (dto.LedgerChangeResponse, error) {
	return m.record(service.DepartmentAdmin, usn, actor)
}

type mockPaymentService struct {
	applied  int
	lastReq  dto.VerifyPaymentRequest
	response dto.PaymentResponse
	err      error
}

func (m *mockPaymentService) Apply(_ context.Context, _ uint, req dto.VerifyPaymentRequest) (dto.PaymentResponse, error) {
	m.applied++
	m.lastReq = req
	return m.response, m.err
}

func (m *mockPaymentService) History(context.Context, uint) ([]dto.PaymentResponse, error) {
	return []dto.PaymentResponse{m.response}, m.err
}

func withUser(userID uint, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
		}
		c.Locals("user_role", role)
		return c.Next()
	}
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

type mockExamService struct {
	lastID     uint
	lastActive *bool
	lastViewer service.ActivityActor
	lastUpdate dto.UpdateExamNotificationRequest
	items      []dto.ExamNotificationResponse
	err        error
}

func (m *mockExamService) Create(_ context.Context, req dto.CreateExamNotificationRequest, actor service.ActivityActor) (dto.ExamNotificationResponse, error) {
	m.lastViewer = actor
	return dto.ExamNotificationResponse{ID: 1, Title: req.Title, ExamFee: req.ExamFee}, m.err
}

func (m *mockExamService) Update(_ context.Context, id uint, req dto.UpdateExamNotificationRequest, actor service.ActivityActor) (dto.ExamNotificationResponse, error) {
	m.lastID = id
	m.lastUpdate = req
	m.lastViewer = actor
	return dto.ExamNotificationResponse{ID: id}, m.err
}

func (m *mockExamService) Delete(_ context.Context, id uint, actor service.ActivityActor) error {
	m.lastID = id
	m.lastViewer = actor
	return m.err
}

func (m *mockExamService) List(_ context.Context, viewer service.ActivityActor, active *bool) ([]dto.ExamNotificationResponse, error) {
	m.lastViewer = viewer
	m.lastActive = active
	return m.items, m.err
}
