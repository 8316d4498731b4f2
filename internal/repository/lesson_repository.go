package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-admin-api/internal/models"
)

// LessonRepository reads lessons, the anchor for assessment ownership.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// IsOwnedBy reports whether the lesson exists and is taught by the given
// teacher. A missing lesson and a lesson taught by someone else are the same
// answer: not owned.
func (r *LessonRepository) IsOwnedBy(ctx context.Context, lessonID, teacherID string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, "SELECT 1 FROM lessons WHERE id = $1 AND teacher_id = $2", lessonID, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check lesson ownership: %w", err)
	}
	return true, nil
}

// ListByTeacher returns the lessons a teacher delivers, for form support.
// An empty teacherID returns every lesson.
func (r *LessonRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Lesson, error) {
	query := "SELECT id, name, day, subject_id, class_id, teacher_id FROM lessons"
	args := []interface{}{}
	if teacherID != "" {
		query += " WHERE teacher_id = $1"
		args = append(args, teacherID)
	}
	query += " ORDER BY name"
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}
