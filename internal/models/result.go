package models

import "time"

// Result records a student's score on exactly one assessment: either an exam
// or an assignment, never both and never neither in a valid row.
type Result struct {
	ID           string  `db:"id" json:"id"`
	Score        int     `db:"score" json:"score"`
	ExamID       *string `db:"exam_id" json:"exam_id,omitempty"`
	AssignmentID *string `db:"assignment_id" json:"assignment_id,omitempty"`
	StudentID    string  `db:"student_id" json:"student_id"`
}

// ResultRow is the raw joined row before assessment resolution. Either the
// exam or assignment columns are populated; rows with neither are invalid
// and dropped during projection.
type ResultRow struct {
	ID              string     `db:"id"`
	Score           int        `db:"score"`
	StudentID       string     `db:"student_id"`
	StudentName     string     `db:"student_name"`
	StudentSurname  string     `db:"student_surname"`
	ExamID          *string    `db:"exam_id"`
	ExamTitle       *string    `db:"exam_title"`
	ExamStart       *time.Time `db:"exam_start"`
	ExamClass       *string    `db:"exam_class"`
	ExamTeacher     *string    `db:"exam_teacher"`
	ExamTeacherSur  *string    `db:"exam_teacher_surname"`
	AsgID           *string    `db:"assignment_id"`
	AsgTitle        *string    `db:"assignment_title"`
	AsgStart        *time.Time `db:"assignment_start"`
	AsgClass        *string    `db:"assignment_class"`
	AsgTeacher      *string    `db:"assignment_teacher"`
	AsgTeacherSur   *string    `db:"assignment_teacher_surname"`
}

// ResultView is the projected list row after resolving the assessment side.
type ResultView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	StudentName    string    `json:"student_name"`
	StudentSurname string    `json:"student_surname"`
	TeacherName    string    `json:"teacher_name"`
	TeacherSurname string    `json:"teacher_surname"`
	Score          int       `json:"score"`
	ClassName      string    `json:"class_name"`
	StartTime      time.Time `json:"start_time"`
}

// Resolve projects the row onto its assessment side. The second return is
// false when both sides are null and the row must be skipped.
func (r ResultRow) Resolve() (ResultView, bool) {
	view := ResultView{
		ID:             r.ID,
		Score:          r.Score,
		StudentName:    r.StudentName,
		StudentSurname: r.StudentSurname,
	}
	switch {
	case r.ExamID != nil:
		view.Title = deref(r.ExamTitle)
		view.ClassName = deref(r.ExamClass)
		view.TeacherName = deref(r.ExamTeacher)
		view.TeacherSurname = deref(r.ExamTeacherSur)
		if r.ExamStart != nil {
			view.StartTime = *r.ExamStart
		}
	case r.AsgID != nil:
		view.Title = deref(r.AsgTitle)
		view.ClassName = deref(r.AsgClass)
		view.TeacherName = deref(r.AsgTeacher)
		view.TeacherSurname = deref(r.AsgTeacherSur)
		if r.AsgStart != nil {
			view.StartTime = *r.AsgStart
		}
	default:
		return ResultView{}, false
	}
	return view, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
