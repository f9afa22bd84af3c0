package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/handler"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/models"
)

func TestStudentLedgerContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("testdata", "student.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	student := models.Student{
		ID:         11,
		USN:        "1AB21CS001",
		Name:       "Asha Rao",
		Department: "CSE",
		Quota:      models.QuotaGovernment,
		Entry:      models.EntryRegular,
		Version:    3,
	}
	student.CurrentYear = 1
	student.Status = ledger.LifecycleActive
	student.Dues = ledger.Dues{College: 5000}
	student.Annual = ledger.Dues{College: 10000}
	student.Records = ledger.Ledger{
		{
			ID: "r1", Kind: ledger.KindSemester, Year: 1, Semester: 1, FeeType: ledger.FeeCollege,
			AmountDue: 5000, AmountPaid: 5000, Status: ledger.StatusPaid,
			Transactions: []ledger.Transaction{{Amount: 5000, Date: now, Mode: "Online (Gateway)", Reference: "pay_1"}},
		},
		{
			ID: "r2", Kind: ledger.KindSemester, Year: 1, Semester: 2, FeeType: ledger.FeeCollege,
			AmountDue: 5000, Status: ledger.StatusPending,
		},
	}

	svc := &mockStudentService{student: dto.NewStudentResponse(student)}
	app := fiber.New()
	group := app.Group("/api/v1/payments", withUser(1, "student"))
	handler.NewPaymentHandler(&mockPaymentService{}, svc, nil, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/payments/me", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
	require.Equal(t, uint(1), svc.lastUserID)
}
