package models

import "time"

// Student is a learner profile. The id is issued by the identity provider so
// storage and provider accounts share a key.
type Student struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address"`
	Img       *string   `db:"img" json:"img,omitempty"`
	BloodType string    `db:"blood_type" json:"blood_type"`
	Sex       string    `db:"sex" json:"sex"`
	Birthday  time.Time `db:"birthday" json:"birthday"`
	GradeID   string    `db:"grade_id" json:"grade_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	ParentID  *string   `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentRow is a student joined with its class for list projection.
type StudentRow struct {
	Student
	ClassName string `db:"class_name" json:"class_name"`
}
