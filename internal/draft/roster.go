package draft

// All category membership flows through setStaffCategory / setParticipantCategory so
// the "leaving committed clears leadership" rule holds at every call site.

// setStaffCategory places the person into the given category (or removes them when
// cleared) and keeps the leadership coupling intact: only committed staffers can hold
// a leader flag
func setStaffCategory(d *EventDraft, personID PersonID, to StaffCategory, remove bool) {
	if cur, ok := d.Staff[personID]; ok && cur == StaffCommitted && (remove || to != StaffCommitted) {
		delete(d.Leaders, personID)
	}
	if remove {
		delete(d.Staff, personID)
		return
	}
	d.Staff[personID] = to
}

func setParticipantCategory(d *EventDraft, personID PersonID, to ParticipantCategory, remove bool) {
	if remove {
		delete(d.Participants, personID)
		return
	}
	d.Participants[personID] = to
}

// MoveStaff moves a person from one staff category to another. The person must
// currently be in the source category; moving out of the committed category clears a
// leader flag the person may hold
func MoveStaff(d EventDraft, personID PersonID, from, to StaffCategory) (EventDraft, error) {
	if !ValidStaffCategory(to) {
		return d, makeRuleError(CodeInvalidTransition, "staff",
			"%q is not a staff category", to)
	}
	if cur, ok := d.Staff[personID]; !ok || cur != from {
		return d, makeRuleError(CodeInvalidTransition, "staff."+string(from),
			"person #%d is not in the %s staff category", personID, from)
	}
	ret := d.clone()
	setStaffCategory(&ret, personID, to, false)
	return ret, nil
}

// RemoveStaff takes a person off the staff roster entirely. Removing someone that is
// not in the named category is a no-op, not an error
func RemoveStaff(d EventDraft, personID PersonID, from StaffCategory) EventDraft {
	if cur, ok := d.Staff[personID]; !ok || cur != from {
		return d
	}
	ret := d.clone()
	setStaffCategory(&ret, personID, "", true)
	return ret
}

// AddStaffCandidate adds a person to the potential staff category unless they already
// appear somewhere on the staff roster
func AddStaffCandidate(d EventDraft, personID PersonID) EventDraft {
	if _, ok := d.Staff[personID]; ok {
		return d
	}
	ret := d.clone()
	setStaffCategory(&ret, personID, StaffPotential, false)
	return ret
}

// PromoteToLeader grants a co-leader flag. Leadership is only granted to committed
// staffers that are not the primary leader; everything else is a no-op
func PromoteToLeader(d EventDraft, personID PersonID) EventDraft {
	if d.Staff[personID] != StaffCommitted || personID == d.PrimaryLeaderID {
		return d
	}
	ret := d.clone()
	ret.Leaders[personID] = struct{}{}
	return ret
}

// DemoteLeader removes a co-leader flag without touching the person's roster category
func DemoteLeader(d EventDraft, personID PersonID) EventDraft {
	if _, ok := d.Leaders[personID]; !ok {
		return d
	}
	ret := d.clone()
	delete(ret.Leaders, personID)
	return ret
}

// SetPrimaryLeader assigns the primary leader (0 clears the assignment). A new
// primary that held a co-leader flag loses it, keeping the two roles disjoint
func SetPrimaryLeader(d EventDraft, personID PersonID) EventDraft {
	ret := d.clone()
	ret.PrimaryLeaderID = personID
	if personID != 0 {
		delete(ret.Leaders, personID)
	}
	return ret
}

// MoveParticipant moves a person from one participant category to another. The person
// must currently be in the source category
func MoveParticipant(d EventDraft, personID PersonID, from, to ParticipantCategory) (EventDraft, error) {
	if !ValidParticipantCategory(to) {
		return d, makeRuleError(CodeInvalidTransition, "participants",
			"%q is not a participant category", to)
	}
	if cur, ok := d.Participants[personID]; !ok || cur != from {
		return d, makeRuleError(CodeInvalidTransition, "participants."+string(from),
			"person #%d is not in the %s participant category", personID, from)
	}
	ret := d.clone()
	setParticipantCategory(&ret, personID, to, false)
	return ret, nil
}

// RemoveParticipant takes a person off the participant roster entirely. Removing
// someone that is not in the named category is a no-op, not an error
func RemoveParticipant(d EventDraft, personID PersonID, from ParticipantCategory) EventDraft {
	if cur, ok := d.Participants[personID]; !ok || cur != from {
		return d
	}
	ret := d.clone()
	setParticipantCategory(&ret, personID, "", true)
	return ret
}

// AddParticipantCandidate adds a person to the potential participant category unless
// they already appear somewhere on the participant roster
func AddParticipantCandidate(d EventDraft, personID PersonID) EventDraft {
	if _, ok := d.Participants[personID]; ok {
		return d
	}
	ret := d.clone()
	setParticipantCategory(&ret, personID, ParticipantPotential, false)
	return ret
}

// Counts summarizes the roster so the UI can warn about capacity without the draft
// logic ever rejecting a transition for exceeding it
type Counts struct {
	PotentialStaff        uint `json:"potentialStaff"`
	CommittedStaff        uint `json:"committedStaff"`
	AlternateStaff        uint `json:"alternateStaff"`
	PotentialParticipants uint `json:"potentialParticipants"`
	CommittedParticipants uint `json:"committedParticipants"`
	Waitlist              uint `json:"waitlist"`
	Leaders               uint `json:"leaders"`
}

// RosterCounts tallies the draft's roster per category
func RosterCounts(d EventDraft) Counts {
	var c Counts
	for _, cat := range d.Staff {
		switch cat {
		case StaffPotential:
			c.PotentialStaff++
		case StaffCommitted:
			c.CommittedStaff++
		case StaffAlternate:
			c.AlternateStaff++
		}
	}
	for _, cat := range d.Participants {
		switch cat {
		case ParticipantPotential:
			c.PotentialParticipants++
		case ParticipantCommitted:
			c.CommittedParticipants++
		case ParticipantWaitlist:
			c.Waitlist++
		}
	}
	c.Leaders = uint(len(d.Leaders))
	return c
}
