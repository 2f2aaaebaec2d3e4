package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cms-api/internal/dto"
	"github.com/noah-isme/cms-api/internal/models"
	appErrors "github.com/noah-isme/cms-api/pkg/errors"
	"github.com/noah-isme/cms-api/pkg/export"
)

type rosterSource interface {
	ListByCourseCode(ctx context.Context, courseCode string) ([]models.EnrollmentDetail, error)
}

type renderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	ContentType() string
	Extension() string
}

var rosterHeaders = []string{"Student ID", "Name", "Email", "Status", "Grade", "Semester", "Academic Year", "Enrolled On"}

// ExportService renders course rosters for download.
type ExportService struct {
	courses     courseReader
	enrollments rosterSource
	renderers   map[dto.ExportFormat]renderer
	logger      *zap.Logger
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(courses courseReader, enrollments rosterSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		courses:     courses,
		enrollments: enrollments,
		renderers: map[dto.ExportFormat]renderer{
			dto.ExportFormatCSV: export.NewCSVExporter(),
			dto.ExportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// CourseRoster renders every enrollment of a course in the requested format.
func (s *ExportService) CourseRoster(ctx context.Context, courseCode string, format dto.ExportFormat) (*dto.ExportFile, error) {
	format = dto.ExportFormat(strings.ToLower(string(format)))
	if format == "" {
		format = dto.ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format: %s", format))
	}

	course, err := s.courses.FindByCode(ctx, courseCode)
	if err != nil {
		return nil, lookupError(err, "course not found with code: "+courseCode, "failed to load course")
	}

	details, err := s.enrollments.ListByCourseCode(ctx, courseCode)
	if err != nil {
		return nil, internalError(err, "failed to load roster")
	}

	body, err := r.Render(rosterDataset(details), fmt.Sprintf("%s - %s", course.Code, course.Title))
	if err != nil {
		return nil, internalError(err, "failed to render roster")
	}

	s.logger.Info("roster exported",
		zap.String("course_code", course.Code),
		zap.String("format", string(format)),
		zap.Int("rows", len(details)),
	)
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s-roster.%s", course.Code, r.Extension()),
		ContentType: r.ContentType(),
		Body:        body,
	}, nil
}

func rosterDataset(details []models.EnrollmentDetail) export.Dataset {
	rows := make([]map[string]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, map[string]string{
			"Student ID":    d.Student.StudentID,
			"Name":          d.Student.FullName(),
			"Email":         d.Student.Email,
			"Status":        string(d.Status),
			"Grade":         deref(d.Grade),
			"Semester":      deref(d.Semester),
			"Academic Year": deref(d.AcademicYear),
			"Enrolled On":   d.EnrollmentDate.Format(time.DateOnly),
		})
	}
	return export.Dataset{Headers: rosterHeaders, Rows: rows}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
