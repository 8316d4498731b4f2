package models

// Grade groups classes by school year level.
type Grade struct {
	ID    string `db:"id" json:"id"`
	Level int    `db:"level" json:"level"`
}

// Class is a homeroom with a hard enrollment capacity and a supervising
// teacher. Enrollment count must never exceed Capacity.
type Class struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Capacity     int     `db:"capacity" json:"capacity"`
	SupervisorID *string `db:"supervisor_id" json:"supervisor_id,omitempty"`
	GradeID      string  `db:"grade_id" json:"grade_id"`
}

// ClassRow is a class joined with its supervisor for list projection.
type ClassRow struct {
	Class
	SupervisorName    *string `db:"supervisor_name" json:"supervisor_name,omitempty"`
	SupervisorSurname *string `db:"supervisor_surname" json:"supervisor_surname,omitempty"`
	GradeLevel        int     `db:"grade_level" json:"grade_level"`
}

// Subject is a taught discipline, linked many-to-many with teachers.
type Subject struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SubjectRow carries the subject plus a rendered list of its teachers.
type SubjectRow struct {
	Subject
	TeacherNames string `db:"teacher_names" json:"teacher_names"`
}

// Lesson ties a subject, a class, and the teacher delivering it. It anchors
// ownership checks for exams and assignments.
type Lesson struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Day       string `db:"day" json:"day"`
	SubjectID string `db:"subject_id" json:"subject_id"`
	ClassID   string `db:"class_id" json:"class_id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
}
