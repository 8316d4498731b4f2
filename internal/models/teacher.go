package models

import "time"

// Teacher is an instructor profile keyed by its identity-provider account id.
type Teacher struct {
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
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Parent is a guardian profile linked to zero or more students.
type Parent struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
