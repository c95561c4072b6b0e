package draft

import (
	"sort"

	"github.com/cwaldner/rostra/internal/models"
)

// FromEvent copies a persisted event into a fresh draft. Roster rows with unknown
// categories are dropped instead of aborting the edit; the console can only produce
// valid rows, so anything else is leftover data
func FromEvent(ev *models.Event) EventDraft {
	d := New(ev.Kind)
	d.EventID = ev.ID
	d.Name = ev.Name
	d.Description = ev.Description
	d.StaffCapacity = ev.StaffCapacity
	d.ParticipantCapacity = ev.ParticipantCapacity
	d.PrimaryLeaderID = PersonID(ev.PrimaryLeaderID)
	d.IsPublished = ev.IsPublished
	d.IsActive = ev.IsActive
	d.TransactionLogID = ev.TransactionLogID
	d.StartAt = ev.StartsAt
	d.EndAt = ev.EndsAt
	d.StaffWindow = Window{Start: ev.StaffOpenFrom, End: ev.StaffOpenUntil}
	d.ParticipantWindow = Window{Start: ev.ParticipantOpenFrom, End: ev.ParticipantOpenUntil}
	for _, entry := range ev.Roster {
		personID := PersonID(entry.PersonID)
		switch entry.Role {
		case models.RosterRoleStaff:
			cat := StaffCategory(entry.Category)
			if !ValidStaffCategory(cat) {
				continue
			}
			d.Staff[personID] = cat
			if entry.IsLeader && cat == StaffCommitted && personID != d.PrimaryLeaderID {
				d.Leaders[personID] = struct{}{}
			}
		case models.RosterRoleParticipant:
			cat := ParticipantCategory(entry.Category)
			if !ValidParticipantCategory(cat) {
				continue
			}
			d.Participants[personID] = cat
		}
	}
	for _, sess := range ev.Schedule {
		d.Schedule = append(d.Schedule, Session{Start: sess.StartsAt, End: sess.EndsAt})
	}
	return d
}

// ToEvent renders the draft back into an event record ready for storage. Roster rows
// are emitted in ascending person-id order so saving the same draft twice yields the
// same rows
func ToEvent(d EventDraft) *models.Event {
	ev := &models.Event{
		ID:                   d.EventID,
		Name:                 d.Name,
		Description:          d.Description,
		Kind:                 d.Kind,
		StaffCapacity:        d.StaffCapacity,
		ParticipantCapacity:  d.ParticipantCapacity,
		PrimaryLeaderID:      uint(d.PrimaryLeaderID),
		StartsAt:             d.StartAt,
		EndsAt:               d.EndAt,
		StaffOpenFrom:        d.StaffWindow.Start,
		StaffOpenUntil:       d.StaffWindow.End,
		ParticipantOpenFrom:  d.ParticipantWindow.Start,
		ParticipantOpenUntil: d.ParticipantWindow.End,
		IsPublished:          d.IsPublished,
		IsActive:             d.IsActive,
		TransactionLogID:     d.TransactionLogID,
	}
	for _, personID := range sortedStaffIDs(d) {
		_, isLeader := d.Leaders[personID]
		ev.Roster = append(ev.Roster, models.RosterEntry{
			EventID:  d.EventID,
			PersonID: uint(personID),
			Role:     models.RosterRoleStaff,
			Category: string(d.Staff[personID]),
			IsLeader: isLeader,
		})
	}
	for _, personID := range sortedParticipantIDs(d) {
		ev.Roster = append(ev.Roster, models.RosterEntry{
			EventID:  d.EventID,
			PersonID: uint(personID),
			Role:     models.RosterRoleParticipant,
			Category: string(d.Participants[personID]),
		})
	}
	for i, sess := range d.Schedule {
		ev.Schedule = append(ev.Schedule, models.EventSession{
			EventID:  d.EventID,
			Position: uint(i),
			StartsAt: sess.Start,
			EndsAt:   sess.End,
		})
	}
	return ev
}

func sortedStaffIDs(d EventDraft) []PersonID {
	ids := make([]PersonID, 0, len(d.Staff))
	for id := range d.Staff {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedParticipantIDs(d EventDraft) []PersonID {
	ids := make([]PersonID, 0, len(d.Participants))
	for id := range d.Participants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
