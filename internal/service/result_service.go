package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
	"github.com/campushq/school-admin-api/pkg/export"
)

type resultRepository interface {
	List(ctx context.Context, pred scope.Predicate, page int) ([]models.ResultRow, int, error)
}

// ResultService reads role-scoped result pages and renders exports. Rows
// whose exam and assignment sides are both null are invalid and silently
// dropped during projection.
type ResultService struct {
	repo    resultRepository
	metrics *MetricsService
	csv     *export.CSVRenderer
	pdf     *export.PDFRenderer
	logger  *zap.Logger
}

// NewResultService constructs the result service.
func NewResultService(repo resultRepository, metrics *MetricsService, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{repo: repo, metrics: metrics, csv: export.NewCSVRenderer(), pdf: export.NewPDFRenderer(), logger: logger}
}

// List returns the caller's visible page of results, projected onto their
// resolved assessment.
func (s *ResultService) List(ctx context.Context, caller models.Identity, params map[string]string) ([]models.ResultView, *models.Pagination, error) {
	pred := scope.Compute(scope.Results, caller, params)
	page := scope.Page(params)
	rows, total, err := s.repo.List(ctx, pred, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	views := make([]models.ResultView, 0, len(rows))
	for _, row := range rows {
		view, ok := row.Resolve()
		if !ok {
			s.logger.Warn("skipping result with no assessment", zap.String("result_id", row.ID))
			continue
		}
		views = append(views, view)
	}
	pagination := &models.Pagination{Page: page, PageSize: scope.PageSize, TotalCount: total}
	return views, pagination, nil
}

// Export renders every result visible to the caller under the given filters
// as CSV or PDF bytes.
func (s *ResultService) Export(ctx context.Context, caller models.Identity, params map[string]string, format string) ([]byte, string, error) {
	pred := scope.Compute(scope.Results, caller, params)

	var views []models.ResultView
	total := 0
	for page := 1; ; page++ {
		start := time.Now()
		rows, pageTotal, err := s.repo.List(ctx, pred, page)
		s.metrics.ObserveDBQuery("results_export_page", time.Since(start))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export results")
		}
		total = pageTotal
		for _, row := range rows {
			if view, ok := row.Resolve(); ok {
				views = append(views, view)
			}
		}
		if page*scope.PageSize >= total || len(rows) == 0 {
			break
		}
	}

	table := export.Table{
		Columns: []string{"Title", "Student", "Score", "Teacher", "Class", "Date"},
	}
	for _, v := range views {
		table.Rows = append(table.Rows, []string{
			v.Title,
			fmt.Sprintf("%s %s", v.StudentName, v.StudentSurname),
			strconv.Itoa(v.Score),
			fmt.Sprintf("%s %s", v.TeacherName, v.TeacherSurname),
			v.ClassName,
			v.StartTime.Format("2006-01-02"),
		})
	}

	switch format {
	case "csv", "":
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := s.pdf.Render(table, "Results")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
