package types

import "time"

// ContactMessage is a note left by a visitor through the connect form.
type ContactMessage struct {
	// ID is the unique identifier of the message.
	ID int `json:"id" db:"id"`

	// Name, Email, Subject and Message are the visitor supplied fields.
	Name    string `json:"name" db:"name"`
	Email   string `json:"email" db:"email"`
	Subject string `json:"subject" db:"subject"`
	Message string `json:"message" db:"message"`

	// CreatedAt is the instant the message was received.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// IsRead is set once an admin marks the message as read.
	IsRead bool `json:"is_read" db:"is_read"`
}

// Feedback is a visitor testimonial. It is hidden until an admin approves it.
type Feedback struct {
	// ID is the unique identifier of the entry.
	ID int `json:"id" db:"id"`

	// Name and Role identify the author, Company is optional.
	Name    string `json:"name" db:"name"`
	Role    string `json:"role" db:"role"`
	Company string `json:"company,omitempty" db:"company"`

	// Message is the testimonial text.
	Message string `json:"message" db:"message"`

	// Rating is an integer in [1,5].
	Rating int `json:"rating" db:"rating"`

	// CreatedAt is the instant the entry was submitted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// IsApproved controls visibility on the connect page.
	IsApproved bool `json:"is_approved" db:"is_approved"`
}
