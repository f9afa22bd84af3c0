package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/handler"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/service"
	"github.com/noah-isme/campus-ledger-api/internal/utils"
)

func newHostelApp(svc *mockDepartmentService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/hostel", withUser(9, "hostel"))
	handler.NewDepartmentHandler(service.DepartmentHostel, svc, &mockStudentService{}, zerolog.Nop()).Register(group)
	return app
}

func TestDepartmentHandler_MarkSemesterPaid(t *testing.T) {
	svc := &mockDepartmentService{result: dto.LedgerChangeResponse{
		Student:      dto.StudentResponse{USN: "1AB21CS001"},
		SemesterPaid: 15000,
		Changed:      true,
	}}
	app := newHostelApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/hostel/students/1AB21CS001/semesters/2/paid", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Message string                   `json:"message"`
		Data    dto.LedgerChangeResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)

	require.Equal(t, "semester marked as paid", payload.Message)
	require.Equal(t, int64(15000), payload.Data.SemesterPaid)
	require.Equal(t, service.DepartmentHostel, svc.lastDept)
	require.Equal(t, 2, svc.lastSemester)
	require.Equal(t, "1AB21CS001", svc.lastUSN)
	require.Equal(t, uint(9), svc.lastActor.ID)
}

func TestDepartmentHandler_MarkSemesterAlreadySettled(t *testing.T) {
	svc := &mockDepartmentService{result: dto.LedgerChangeResponse{AlreadySettled: true}}
	app := newHostelApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/hostel/students/1AB21CS001/semesters/1/paid", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, "semester already settled", payload.Message)
}

func TestDepartmentHandler_InvalidSemester(t *testing.T) {
	svc := &mockDepartmentService{}
	app := newHostelApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/hostel/students/1AB21CS001/semesters/two/paid", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Empty(t, svc.lastUSN)
}

func TestDepartmentHandler_OverrideDueConflict(t *testing.T) {
	svc := &mockDepartmentService{err: &ledger.Error{Op: "OverrideDue", Kind: ledger.ErrConcurrentModification, Message: "student ledger changed, retry"}}
	app := newHostelApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/hostel/students/1AB21CS001/due", bytes.NewBufferString(`{"due":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var payload struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, "student ledger changed, retry", payload.Message)
	require.Equal(t, utils.CodeConcurrentModified, payload.Code)
}
