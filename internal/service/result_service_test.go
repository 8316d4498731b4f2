package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type mockResultRepo struct {
	rows  []models.ResultRow
	total int
}

func (m *mockResultRepo) List(ctx context.Context, pred scope.Predicate, page int) ([]models.ResultRow, int, error) {
	if page > 1 {
		return nil, m.total, nil
	}
	return m.rows, m.total, nil
}

func strPtr(s string) *string { return &s }

func examResultRow(id string) models.ResultRow {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return models.ResultRow{
		ID:             id,
		Score:          88,
		StudentID:      "s1",
		StudentName:    "Jane",
		StudentSurname: "Doe",
		ExamID:         strPtr("e1"),
		ExamTitle:      strPtr("Midterm"),
		ExamStart:      &start,
		ExamClass:      strPtr("1A"),
		ExamTeacher:    strPtr("John"),
		ExamTeacherSur: strPtr("Smith"),
	}
}

func TestResultServiceListResolvesExamSide(t *testing.T) {
	repo := &mockResultRepo{rows: []models.ResultRow{examResultRow("r1")}, total: 1}
	svc := NewResultService(repo, nil, zap.NewNop())

	views, pagination, err := svc.List(context.Background(), models.Identity{Role: models.RoleAdmin}, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Midterm", views[0].Title)
	assert.Equal(t, "1A", views[0].ClassName)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestResultServiceListSkipsRowWithNoAssessment(t *testing.T) {
	orphan := models.ResultRow{ID: "r2", Score: 50, StudentName: "Jane", StudentSurname: "Doe"}
	repo := &mockResultRepo{rows: []models.ResultRow{examResultRow("r1"), orphan}, total: 2}
	svc := NewResultService(repo, nil, zap.NewNop())

	views, _, err := svc.List(context.Background(), models.Identity{Role: models.RoleAdmin}, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "r1", views[0].ID)
}

func TestResultServiceListResolvesAssignmentSide(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	row := models.ResultRow{
		ID:             "r3",
		Score:          72,
		StudentName:    "Jane",
		StudentSurname: "Doe",
		AsgID:          strPtr("a1"),
		AsgTitle:       strPtr("Essay"),
		AsgStart:       &start,
		AsgClass:       strPtr("2B"),
		AsgTeacher:     strPtr("Mary"),
		AsgTeacherSur:  strPtr("Jones"),
	}
	repo := &mockResultRepo{rows: []models.ResultRow{row}, total: 1}
	svc := NewResultService(repo, nil, zap.NewNop())

	views, _, err := svc.List(context.Background(), models.Identity{Role: models.RoleStudent, UserID: "s1"}, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Essay", views[0].Title)
	assert.Equal(t, "Jones", views[0].TeacherSurname)
}

func TestResultServiceExportCSV(t *testing.T) {
	repo := &mockResultRepo{rows: []models.ResultRow{examResultRow("r1")}, total: 1}
	svc := NewResultService(repo, nil, zap.NewNop())

	data, contentType, err := svc.Export(context.Background(), models.Identity{Role: models.RoleAdmin}, nil, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "Title,Student,Score,Teacher,Class,Date"))
	assert.Contains(t, text, "Midterm,Jane Doe,88,John Smith,1A,2026-03-10")
}

func TestResultServiceExportPDF(t *testing.T) {
	repo := &mockResultRepo{rows: []models.ResultRow{examResultRow("r1")}, total: 1}
	svc := NewResultService(repo, nil, zap.NewNop())

	data, contentType, err := svc.Export(context.Background(), models.Identity{Role: models.RoleAdmin}, nil, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.NotEmpty(t, data)
}

func TestResultServiceExportUnsupportedFormat(t *testing.T) {
	svc := NewResultService(&mockResultRepo{}, nil, zap.NewNop())

	_, _, err := svc.Export(context.Background(), models.Identity{Role: models.RoleAdmin}, nil, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
