// Package draft contains the in-memory editing logic for events: the roster category
// state machine, the schedule/bounds synchronization and the publication window checks.
// All operations in this package are pure - they take an EventDraft value and return a
// new one, leaving the input untouched. Persistence is the caller's business
package draft

import (
	"fmt"
	"time"
)

// PersonID references a person record in the people storage. The draft logic never
// dereferences it
type PersonID uint

// StaffCategory is one of the mutually-exclusive membership states on the staff side
type StaffCategory string

const (
	// StaffPotential is the category for suggested but unconfirmed staffers
	StaffPotential StaffCategory = "potential"
	// StaffCommitted is the category for staffers that have committed to the event
	StaffCommitted StaffCategory = "committed"
	// StaffAlternate is the category for backup staffers
	StaffAlternate StaffCategory = "alternate"
)

// ParticipantCategory is one of the mutually-exclusive membership states on the
// participant side
type ParticipantCategory string

const (
	// ParticipantPotential is the category for suggested but unconfirmed participants
	ParticipantPotential ParticipantCategory = "potential"
	// ParticipantCommitted is the category for participants with a confirmed spot
	ParticipantCommitted ParticipantCategory = "committed"
	// ParticipantWaitlist is the category for participants waiting for a free spot
	ParticipantWaitlist ParticipantCategory = "waitlist"
)

// ValidStaffCategory checks if the given value is one of the three staff categories
func ValidStaffCategory(c StaffCategory) bool {
	return c == StaffPotential || c == StaffCommitted || c == StaffAlternate
}

// ValidParticipantCategory checks if the given value is one of the three participant
// categories
func ValidParticipantCategory(c ParticipantCategory) bool {
	return c == ParticipantPotential || c == ParticipantCommitted || c == ParticipantWaitlist
}

// A Session is a single scheduled time block within an event's schedule
type Session struct {
	// When does the session start?
	Start time.Time `json:"start"`
	// When does the session end? Must be after Start
	End time.Time `json:"end"`
}

// A Window is a time range during which an event is open for applications. Both
// boundaries may be unset ("not yet published"); a half-set window is only legal
// while an edit is still in progress
type Window struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Empty checks if neither boundary of the window has been set
func (w Window) Empty() bool {
	return w.Start == nil && w.End == nil
}

// Complete checks if both boundaries of the window have been set
func (w Window) Complete() bool {
	return w.Start != nil && w.End != nil
}

// An EventDraft is the mutable working copy of one event being edited. Roster
// membership is a single map per family, so a person can never occupy two categories
// at once
type EventDraft struct {
	// ID of the persisted event - 0 marks an event that has not been saved, yet
	EventID uint `json:"eventId"`
	// Carried event fields - the draft logic treats them as opaque
	Kind             string `json:"kind"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	IsPublished      bool   `json:"isPublished"`
	IsActive         bool   `json:"isActive"`
	TransactionLogID uint   `json:"transactionLogId,omitempty"`
	// StaffCapacity limits the staff roster - 0 means "uncapped"
	StaffCapacity uint `json:"staffCapacity"`
	// ParticipantCapacity limits the participant roster - 0 is a real zero cap.
	// The capacity is informational during editing; no transition is rejected for
	// exceeding it
	ParticipantCapacity uint `json:"participantCapacity"`
	// Staff roster - each person is in exactly one category
	Staff map[PersonID]StaffCategory `json:"staff"`
	// Participant roster - each person is in exactly one category
	Participants map[PersonID]ParticipantCategory `json:"participants"`
	// The primary leader - 0 if unset; never also a member of Leaders
	PrimaryLeaderID PersonID `json:"primaryLeaderId,omitempty"`
	// Co-leaders - every member must currently be committed staff
	Leaders map[PersonID]struct{} `json:"leaders"`
	// The ordered session schedule
	Schedule []Session `json:"schedule"`
	// Overall bounds - kept consistent with the schedule via SyncBasicFields
	StartAt *time.Time `json:"startAt,omitempty"`
	EndAt   *time.Time `json:"endAt,omitempty"`
	// Application windows for the two roster sides
	StaffWindow       Window `json:"staffWindow"`
	ParticipantWindow Window `json:"participantWindow"`
}

// New creates an empty draft for an unpersisted event of the given kind. Both
// capacities start at zero; the caller raises them once the scope of the event is
// known
func New(kind string) EventDraft {
	return EventDraft{
		Kind:         kind,
		IsActive:     true,
		Staff:        map[PersonID]StaffCategory{},
		Participants: map[PersonID]ParticipantCategory{},
		Leaders:      map[PersonID]struct{}{},
	}
}

// clone returns a deep copy of the draft so that the pure operations can modify it
// freely
func (d EventDraft) clone() EventDraft {
	ret := d
	ret.Staff = make(map[PersonID]StaffCategory, len(d.Staff))
	for id, cat := range d.Staff {
		ret.Staff[id] = cat
	}
	ret.Participants = make(map[PersonID]ParticipantCategory, len(d.Participants))
	for id, cat := range d.Participants {
		ret.Participants[id] = cat
	}
	ret.Leaders = make(map[PersonID]struct{}, len(d.Leaders))
	for id := range d.Leaders {
		ret.Leaders[id] = struct{}{}
	}
	ret.Schedule = append([]Session(nil), d.Schedule...)
	return ret
}

// IsNew checks if the draft belongs to an event that has not been persisted, yet
func (d EventDraft) IsNew() bool {
	return d.EventID == 0
}

// -- Rule errors ------------------------------------------------------------------------------------------------------

const (
	// CodeInvalidTransition is reported when a roster move starts from a category the
	// person is not currently in
	CodeInvalidTransition = "INVALID_TRANSITION"
	// CodeIncompleteWindow is reported when only one boundary of a window is set at
	// save time
	CodeIncompleteWindow = "INCOMPLETE_WINDOW"
	// CodeInvalidWindowOrder is reported when a window starts at or after its end
	CodeInvalidWindowOrder = "INVALID_WINDOW_ORDER"
	// CodeWindowAfterEventStart is reported when a window boundary lies at or after
	// the event's first session
	CodeWindowAfterEventStart = "WINDOW_AFTER_EVENT_START"
	// CodeMissingEventBounds is reported when sessions exist but a bound is unset
	CodeMissingEventBounds = "MISSING_EVENT_BOUNDS"
	// CodeBoundsMismatch is reported when the stored bounds differ from the derived
	// ones
	CodeBoundsMismatch = "BOUNDS_MISMATCH"
	// CodeScheduleBoundsUnavailable is reported when bounds cannot be derived from a
	// non-empty schedule
	CodeScheduleBoundsUnavailable = "SCHEDULE_BOUNDS_UNAVAILABLE"
)

// A RuleError describes one violated editing rule. It names the machine-readable code
// and the field the violation was detected on
type RuleError struct {
	// One of the Code* constants
	Code string `json:"code"`
	// The offending field, e.g. "staffWindow.end"
	Field string `json:"field,omitempty"`
	// Human-readable description
	Message string `json:"message"`
}

// Error implements the error interface
func (e *RuleError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func makeRuleError(code, field, format string, args ...interface{}) *RuleError {
	return &RuleError{
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validate runs all save-time checks on the draft and returns the full list of
// violations. An empty result means the draft may be handed to storage
func Validate(d EventDraft) []RuleError {
	ret := ValidateSync(d)
	ret = append(ret, CheckWindows(d)...)
	return ret
}
