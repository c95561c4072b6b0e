package models

import "time"

const (
	// EventKindStandard marks a regular gathering of the organization
	EventKindStandard = "standard"
	// EventKindNWTA marks an event of the specialized NWTA variant
	EventKindNWTA = "nwta"
)

const (
	// RosterRoleStaff marks a roster entry belonging to the staff side of an event
	RosterRoleStaff = "staff"
	// RosterRoleParticipant marks a roster entry belonging to the participant side of an event
	RosterRoleParticipant = "participant"
)

const (
	// CategoryPotential is the roster category for people that have been suggested but not confirmed
	CategoryPotential = "potential"
	// CategoryCommitted is the roster category for people that have committed to the event
	CategoryCommitted = "committed"
	// CategoryAlternate is the staff-only roster category for backup staffers
	CategoryAlternate = "alternate"
	// CategoryWaitlist is the participant-only roster category for people waiting for a free spot
	CategoryWaitlist = "waitlist"
)

// Event describes one scheduled gathering of the organization
// The record carries the overall bounds and publication windows; the roster and the
// session schedule are stored in their own tables and loaded alongside
type Event struct {
	// Internal ID
	ID uint `db:"id" json:"id"`
	// Name of the event
	Name string `db:"name" json:"name"`
	// A little description of the event
	Description string `db:"description" json:"description,omitempty"`
	// Which variant of event this is - see the EventKind* constants
	Kind string `db:"kind" json:"kind"`
	// Maximum number of staffers - 0 means "uncapped"
	StaffCapacity uint `db:"staffCapacity" json:"staffCapacity"`
	// Maximum number of participants - 0 is a real zero cap
	ParticipantCapacity uint `db:"participantCapacity" json:"participantCapacity"`
	// The person leading the event - 0 if nobody has been assigned, yet
	PrimaryLeaderID uint `db:"primaryLeaderId" json:"primaryLeaderId,omitempty"`
	// Overall bounds - derived from the session schedule; unset until a schedule exists
	StartsAt *time.Time `db:"startsAt" json:"startsAt,omitempty"`
	EndsAt   *time.Time `db:"endsAt" json:"endsAt,omitempty"`
	// Publication window during which staff applications are open
	StaffOpenFrom  *time.Time `db:"staffOpenFrom" json:"staffOpenFrom,omitempty"`
	StaffOpenUntil *time.Time `db:"staffOpenUntil" json:"staffOpenUntil,omitempty"`
	// Publication window during which participant applications are open
	ParticipantOpenFrom  *time.Time `db:"participantOpenFrom" json:"participantOpenFrom,omitempty"`
	ParticipantOpenUntil *time.Time `db:"participantOpenUntil" json:"participantOpenUntil,omitempty"`
	// Has the event been published to the membership?
	IsPublished bool `db:"isPublished" json:"isPublished"`
	// Is the event still active (not archived)?
	IsActive bool `db:"isActive" json:"isActive"`
	// The transaction log this event's payments are booked against - opaque to the event logic
	TransactionLogID uint `db:"transactionLogId" json:"transactionLogId,omitempty"`
	// Creation date of this entry
	CreatedAt time.Time `db:"createdAt" json:"createdAt"`
	// Date of the last update of this entry
	UpdatedAt time.Time `db:"updatedAt" json:"updatedAt"`
	// The full roster of the event - loaded from the EventRoster table
	Roster []RosterEntry `json:"roster,omitempty"`
	// The ordered session schedule of the event - loaded from the EventSessions table
	Schedule []EventSession `json:"schedule,omitempty"`
}

// A RosterEntry places one person into exactly one roster category of an event
type RosterEntry struct {
	// The event the entry belongs to
	EventID uint `db:"eventId" json:"-"`
	// The person placed on the roster - an opaque reference into the People table
	PersonID uint `db:"personId" json:"personId"`
	// Which side of the roster - see the RosterRole* constants
	Role string `db:"role" json:"role"`
	// The roster category - see the Category* constants
	Category string `db:"category" json:"category"`
	// Is this staffer a co-leader? Only meaningful for committed staff
	IsLeader bool `db:"isLeader" json:"isLeader,omitempty"`
}

// An EventSession is a single scheduled time block within an event
type EventSession struct {
	// The event the session belongs to
	EventID uint `db:"eventId" json:"-"`
	// The position of the session inside the schedule
	Position uint `db:"position" json:"-"`
	// When does the session start?
	StartsAt time.Time `db:"startsAt" json:"startsAt"`
	// When does the session end? Must be after StartsAt
	EndsAt time.Time `db:"endsAt" json:"endsAt"`
}

// ValidEventKind checks if the given value is a valid event kind
func ValidEventKind(kind string) bool {
	return kind == EventKindStandard || kind == EventKindNWTA
}
