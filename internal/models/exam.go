package models

import "time"

// Exam is a timed assessment attached to exactly one lesson.
type Exam struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	LessonID  string    `db:"lesson_id" json:"lesson_id"`
}

// Assignment is a take-home assessment attached to exactly one lesson.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
	LessonID  string    `db:"lesson_id" json:"lesson_id"`
}

// AssessmentRow is the shared list projection for exams and assignments:
// the assessment plus its lesson's subject, class, and teacher.
type AssessmentRow struct {
	ID             string    `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	StartTime      time.Time `db:"start_time" json:"start_time"`
	EndTime        time.Time `db:"end_time" json:"end_time"`
	LessonID       string    `db:"lesson_id" json:"lesson_id"`
	SubjectName    string    `db:"subject_name" json:"subject_name"`
	ClassName      string    `db:"class_name" json:"class_name"`
	TeacherName    string    `db:"teacher_name" json:"teacher_name"`
	TeacherSurname string    `db:"teacher_surname" json:"teacher_surname"`
}
