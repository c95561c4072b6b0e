package draft

import "time"

const (
	// WindowStaff selects the staff application window
	WindowStaff = "staff"
	// WindowParticipant selects the participant application window
	WindowParticipant = "participant"
)

// fieldPrefix maps a window role to the field names used in rule errors
func fieldPrefix(role string) string {
	if role == WindowParticipant {
		return "participantWindow"
	}
	return "staffWindow"
}

// windowFor returns the draft's window for the given role
func windowFor(d EventDraft, role string) Window {
	if role == WindowParticipant {
		return d.ParticipantWindow
	}
	return d.StaffWindow
}

// checkWindow validates one application window against the start of the event's first
// session. With atSave set, a half-set window is reported as incomplete; during
// editing it is tolerated and only the boundaries that are already set are checked
func checkWindow(w Window, firstStart *time.Time, role string, atSave bool) []RuleError {
	prefix := fieldPrefix(role)
	var ret []RuleError
	if atSave && !w.Empty() && !w.Complete() {
		field := prefix + ".end"
		if w.Start == nil {
			field = prefix + ".start"
		}
		ret = append(ret, *makeRuleError(CodeIncompleteWindow, field,
			"the %s application window is only half set", role))
	}
	// The order rule involves both boundaries, so the error names the window rather
	// than singling out a boundary the editor may not have touched
	if w.Complete() && !w.Start.Before(*w.End) {
		ret = append(ret, *makeRuleError(CodeInvalidWindowOrder, prefix,
			"the %s application window must start before it ends", role))
	}
	if firstStart != nil {
		if w.Start != nil && !w.Start.Before(*firstStart) {
			ret = append(ret, *makeRuleError(CodeWindowAfterEventStart, prefix+".start",
				"the %s application window must open before the event starts", role))
		}
		if w.End != nil && !w.End.Before(*firstStart) {
			ret = append(ret, *makeRuleError(CodeWindowAfterEventStart, prefix+".end",
				"the %s application window must close before the event starts", role))
		}
	}
	return ret
}

// CheckWindows runs the save-time validation of both application windows. Half-set
// windows block the save here; everything else matches the per-edit checks
func CheckWindows(d EventDraft) []RuleError {
	firstStart := FirstSessionStart(d)
	ret := checkWindow(d.StaffWindow, firstStart, WindowStaff, true)
	ret = append(ret, checkWindow(d.ParticipantWindow, firstStart, WindowParticipant, true)...)
	return ret
}

// CheckWindowEdit runs the next-keystroke validation of one window after a partial
// edit. A half-set window is fine mid-edit; the boundaries that are set are still
// checked for order and position relative to the event start
func CheckWindowEdit(d EventDraft, role string) []RuleError {
	return checkWindow(windowFor(d, role), FirstSessionStart(d), role, false)
}

// SetWindowStart sets one boundary of an application window and returns the updated
// draft. Together with SetWindowEnd this keeps partial edits commutative: applying
// start and end in either order yields the same window
func SetWindowStart(d EventDraft, role string, start *time.Time) EventDraft {
	ret := d.clone()
	if role == WindowParticipant {
		ret.ParticipantWindow.Start = start
	} else {
		ret.StaffWindow.Start = start
	}
	return ret
}

// SetWindowEnd sets the closing boundary of an application window
func SetWindowEnd(d EventDraft, role string, end *time.Time) EventDraft {
	ret := d.clone()
	if role == WindowParticipant {
		ret.ParticipantWindow.End = end
	} else {
		ret.StaffWindow.End = end
	}
	return ret
}
