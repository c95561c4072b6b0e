package models

import "time"

const (
	// PersonKindMember marks a full member of the organization
	PersonKindMember = "member"
	// PersonKindProspect marks someone that has shown interest but has not joined, yet
	PersonKindProspect = "prospect"
)

// Person describes a member or prospect managed by the console
type Person struct {
	// Internal ID
	ID uint `db:"id" json:"id"`
	// Given name
	FirstName string `db:"firstName" json:"firstName"`
	// Family name
	LastName string `db:"lastName" json:"lastName"`
	// Contact email address
	Email string `db:"email" json:"email,omitempty"`
	// Contact phone number
	Phone string `db:"phone" json:"phone,omitempty"`
	// Member or prospect? See the PersonKind* constants
	Kind string `db:"kind" json:"kind"`
	// Free-form administrative notes
	Notes string `db:"notes" json:"notes,omitempty"`
	// Creation date of this entry
	CreatedAt time.Time `db:"createdAt" json:"createdAt"`
	// Date of the last update of this entry
	UpdatedAt time.Time `db:"updatedAt" json:"updatedAt"`
}

// DisplayName returns the name the console shows for this person
func (p *Person) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// ValidPersonKind checks if the given value is a valid person kind
func ValidPersonKind(kind string) bool {
	return kind == PersonKindMember || kind == PersonKindProspect
}
