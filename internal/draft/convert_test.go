package draft

import (
	"testing"

	"github.com/cwaldner/rostra/internal/models"
)

func TestEventRoundTrip(t *testing.T) {
	start := ts("2025-06-01T09:00:00Z")
	end := ts("2025-06-02T17:00:00Z")
	winStart := ts("2025-05-01T00:00:00Z")
	winEnd := ts("2025-05-15T00:00:00Z")
	ev := &models.Event{
		ID:                  12,
		Name:                "Spring training",
		Kind:                models.EventKindNWTA,
		StaffCapacity:       0,
		ParticipantCapacity: 32,
		PrimaryLeaderID:     1,
		StartsAt:            &start,
		EndsAt:              &end,
		StaffOpenFrom:       &winStart,
		StaffOpenUntil:      &winEnd,
		IsPublished:         true,
		IsActive:            true,
		TransactionLogID:    7,
		Roster: []models.RosterEntry{
			{EventID: 12, PersonID: 1, Role: models.RosterRoleStaff, Category: models.CategoryCommitted},
			{EventID: 12, PersonID: 2, Role: models.RosterRoleStaff, Category: models.CategoryCommitted, IsLeader: true},
			{EventID: 12, PersonID: 3, Role: models.RosterRoleStaff, Category: models.CategoryAlternate},
			{EventID: 12, PersonID: 10, Role: models.RosterRoleParticipant, Category: models.CategoryWaitlist},
		},
		Schedule: []models.EventSession{
			{EventID: 12, Position: 0, StartsAt: ts("2025-06-01T09:00:00Z"), EndsAt: ts("2025-06-01T17:00:00Z")},
			{EventID: 12, Position: 1, StartsAt: ts("2025-06-02T09:00:00Z"), EndsAt: ts("2025-06-02T17:00:00Z")},
		},
	}

	d := FromEvent(ev)
	if d.EventID != 12 || d.IsNew() {
		t.Fatalf("expected persisted event id 12, got %d", d.EventID)
	}
	if d.Staff[2] != StaffCommitted {
		t.Fatalf("expected person 2 committed, got %s", d.Staff[2])
	}
	if _, ok := d.Leaders[2]; !ok {
		t.Fatal("expected person 2 to carry the leader flag")
	}
	if d.Participants[10] != ParticipantWaitlist {
		t.Fatalf("expected person 10 on the waitlist, got %s", d.Participants[10])
	}
	if len(d.Schedule) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(d.Schedule))
	}
	if errs := Validate(d); len(errs) != 0 {
		t.Fatalf("freshly loaded draft should validate, got %v", errs)
	}

	back := ToEvent(d)
	if len(back.Roster) != 4 {
		t.Fatalf("expected 4 roster rows, got %d", len(back.Roster))
	}
	if back.Roster[0].PersonID != 1 || back.Roster[1].PersonID != 2 || back.Roster[2].PersonID != 3 {
		t.Fatalf("staff rows not in person-id order: %+v", back.Roster)
	}
	if !back.Roster[1].IsLeader {
		t.Fatal("leader flag lost on the way back")
	}
	if back.StaffOpenFrom == nil || !back.StaffOpenFrom.Equal(winStart) {
		t.Fatal("staff window start lost on the way back")
	}
	if back.Schedule[1].Position != 1 {
		t.Fatalf("expected session positions to be renumbered, got %d", back.Schedule[1].Position)
	}
}

func TestFromEventDropsUnknownCategories(t *testing.T) {
	ev := &models.Event{
		ID:   3,
		Kind: models.EventKindStandard,
		Roster: []models.RosterEntry{
			{PersonID: 1, Role: models.RosterRoleStaff, Category: "bogus"},
			{PersonID: 2, Role: models.RosterRoleParticipant, Category: models.CategoryAlternate},
			{PersonID: 3, Role: models.RosterRoleParticipant, Category: models.CategoryCommitted},
		},
	}
	d := FromEvent(ev)
	if len(d.Staff) != 0 {
		t.Fatalf("unknown staff category kept: %+v", d.Staff)
	}
	if len(d.Participants) != 1 || d.Participants[3] != ParticipantCommitted {
		t.Fatalf("expected only person 3 on the participant roster, got %+v", d.Participants)
	}
}

func TestFromEventIgnoresLeaderFlagOutsideCommitted(t *testing.T) {
	ev := &models.Event{
		ID:              4,
		Kind:            models.EventKindNWTA,
		PrimaryLeaderID: 2,
		Roster: []models.RosterEntry{
			{PersonID: 1, Role: models.RosterRoleStaff, Category: models.CategoryAlternate, IsLeader: true},
			{PersonID: 2, Role: models.RosterRoleStaff, Category: models.CategoryCommitted, IsLeader: true},
		},
	}
	d := FromEvent(ev)
	if len(d.Leaders) != 0 {
		t.Fatalf("leader flags should be dropped for alternates and the primary, got %+v", d.Leaders)
	}
}
