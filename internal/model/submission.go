package model

import "time"

// Submission is the raw contact form as posted by the browser.
// Field names match the form inputs.
type Submission struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Address   string `json:"address" form:"address"`
	City      string `json:"city" form:"city"`
	Zipcode   string `json:"zipcode" form:"zipcode"`
	Email     string `json:"email" form:"email"`
	Phone     string `json:"phone" form:"phone"`
}

// Record is a validated submission as persisted in the document store.
// ID is assigned by the store and is not part of the stored body.
type Record struct {
	ID          string    `json:"id,omitempty" firestore:"-"`
	FirstName   string    `json:"first_name" firestore:"first_name"`
	LastName    string    `json:"last_name" firestore:"last_name"`
	Address     string    `json:"address" firestore:"address"`
	City        string    `json:"city" firestore:"city"`
	Zipcode     string    `json:"zipcode" firestore:"zipcode"`
	Email       string    `json:"email" firestore:"email"`
	Phone       string    `json:"phone" firestore:"phone"`
	SubmittedAt time.Time `json:"submitted_at" firestore:"submitted_at"`
}

// NewRecord copies the submission fields and stamps them with submittedAt in UTC.
func NewRecord(s Submission, submittedAt time.Time) *Record {
	return &Record{
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Address:     s.Address,
		City:        s.City,
		Zipcode:     s.Zipcode,
		Email:       s.Email,
		Phone:       s.Phone,
		SubmittedAt: submittedAt.UTC(),
	}
}
