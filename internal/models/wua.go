package models

import "time"

// WUACategory classifies a Water User Association by project size.
type WUACategory string

const (
	WUACategoryMajor WUACategory = "MAJOR"
	WUACategoryMinor WUACategory = "MINOR"
)

// WUA represents a Water User Association eligible for nomination.
type WUA struct {
	ID                 string      `db:"id" json:"id"`
	RegistrationNumber string      `db:"registration_number" json:"registration_number"`
	Name               string      `db:"name" json:"name"`
	District           string      `db:"district" json:"district"`
	Circle             string      `db:"circle" json:"circle"`
	Corporation        string      `db:"corporation" json:"corporation"`
	Category           WUACategory `db:"category" json:"category"`
	ContactEmail       string      `db:"contact_email" json:"contact_email"`
	ContactPhone       string      `db:"contact_phone" json:"contact_phone"`
	Active             bool        `db:"active" json:"active"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}

// WUAFilter captures filtering criteria for listing associations.
type WUAFilter struct {
	District    string
	Circle      string
	Corporation string
	Category    WUACategory
	Active      *bool
	Search      string
	Limit       int
	Offset      int
}
