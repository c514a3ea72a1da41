package entity

import "time"

// ContactRequest is a message submitted through the contact form.
type ContactRequest struct {
	Id        int       `db:"id"`
	Subject   string    `db:"subject"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}
