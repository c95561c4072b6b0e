package draft

import "time"

// DeriveBounds computes the overall start and end of an event from its session
// schedule: the earliest session start and the latest session end. An empty schedule
// yields nil bounds. The result does not depend on the order of the sessions
func DeriveBounds(sessions []Session) (start, end *time.Time) {
	for _, sess := range sessions {
		if start == nil || sess.Start.Before(*start) {
			s := sess.Start
			start = &s
		}
		if end == nil || sess.End.After(*end) {
			e := sess.End
			end = &e
		}
	}
	return start, end
}

// SyncBasicFields sets the draft's overall bounds from its schedule. An empty
// schedule does not erase bounds that have been set manually before
func SyncBasicFields(d EventDraft) EventDraft {
	ret := d.clone()
	start, end := DeriveBounds(ret.Schedule)
	if start != nil {
		ret.StartAt = start
	}
	if end != nil {
		ret.EndAt = end
	}
	return ret
}

// ValidateSync checks that the stored bounds match the bounds derived from the
// schedule. A draft without sessions is always valid; with sessions, both bounds must
// be set and equal the derived values exactly (no tolerance window)
func ValidateSync(d EventDraft) []RuleError {
	if len(d.Schedule) == 0 {
		return nil
	}
	start, end := DeriveBounds(d.Schedule)
	if start == nil || end == nil {
		return []RuleError{*makeRuleError(CodeScheduleBoundsUnavailable, "schedule",
			"cannot derive bounds from the session schedule")}
	}
	var ret []RuleError
	if d.StartAt == nil {
		ret = append(ret, *makeRuleError(CodeMissingEventBounds, "startAt",
			"the event has sessions but no start"))
	} else if !d.StartAt.Equal(*start) {
		ret = append(ret, *makeRuleError(CodeBoundsMismatch, "startAt",
			"event start %s does not match the first session start %s", d.StartAt, start))
	}
	if d.EndAt == nil {
		ret = append(ret, *makeRuleError(CodeMissingEventBounds, "endAt",
			"the event has sessions but no end"))
	} else if !d.EndAt.Equal(*end) {
		ret = append(ret, *makeRuleError(CodeBoundsMismatch, "endAt",
			"event end %s does not match the last session end %s", d.EndAt, end))
	}
	return ret
}

// FirstSessionStart returns the start of the earliest session in the schedule, or nil
// for an empty schedule
func FirstSessionStart(d EventDraft) *time.Time {
	start, _ := DeriveBounds(d.Schedule)
	return start
}
