package draft

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func withFirstSession(start string) EventDraft {
	d := New("nwta")
	d.Schedule = []Session{
		{Start: ts(start), End: ts(start).Add(8 * time.Hour)},
	}
	return d
}

func TestCheckWindows(t *testing.T) {
	convey.Convey("Given an event starting on 2025-06-01", t, func() {
		d := withFirstSession("2025-06-01T09:00:00Z")

		convey.Convey("A window lying fully before the event passes", func() {
			start := ts("2025-05-01T00:00:00Z")
			end := ts("2025-05-15T00:00:00Z")
			d.StaffWindow = Window{Start: &start, End: &end}
			convey.So(CheckWindows(d), convey.ShouldBeEmpty)
		})

		convey.Convey("A window ending after the event start is rejected on its end boundary", func() {
			d2 := withFirstSession("2025-05-10T09:00:00Z")
			start := ts("2025-05-01T00:00:00Z")
			end := ts("2025-05-15T00:00:00Z")
			d2.StaffWindow = Window{Start: &start, End: &end}
			errs := CheckWindows(d2)
			convey.So(len(errs), convey.ShouldEqual, 1)
			convey.So(errs[0].Code, convey.ShouldEqual, CodeWindowAfterEventStart)
			convey.So(errs[0].Field, convey.ShouldEqual, "staffWindow.end")
		})

		convey.Convey("A window starting at or after its end is out of order", func() {
			start := ts("2025-05-15T00:00:00Z")
			end := ts("2025-05-15T00:00:00Z")
			d.ParticipantWindow = Window{Start: &start, End: &end}
			errs := CheckWindows(d)
			convey.So(len(errs), convey.ShouldEqual, 1)
			convey.So(errs[0].Code, convey.ShouldEqual, CodeInvalidWindowOrder)
			convey.So(errs[0].Field, convey.ShouldEqual, "participantWindow")
		})

		convey.Convey("A half-set window blocks the save", func() {
			start := ts("2025-05-01T00:00:00Z")
			d.StaffWindow = Window{Start: &start}
			errs := CheckWindows(d)
			convey.So(len(errs), convey.ShouldEqual, 1)
			convey.So(errs[0].Code, convey.ShouldEqual, CodeIncompleteWindow)
			convey.So(errs[0].Field, convey.ShouldEqual, "staffWindow.end")
		})

		convey.Convey("Unset windows are simply not published", func() {
			convey.So(CheckWindows(d), convey.ShouldBeEmpty)
		})

		convey.Convey("Both windows are validated independently", func() {
			staffStart := ts("2025-05-01T00:00:00Z")
			partStart := ts("2025-07-01T00:00:00Z")
			partEnd := ts("2025-07-02T00:00:00Z")
			d.StaffWindow = Window{Start: &staffStart}
			d.ParticipantWindow = Window{Start: &partStart, End: &partEnd}
			errs := CheckWindows(d)
			codes := map[string]int{}
			for _, e := range errs {
				codes[e.Code]++
			}
			convey.So(codes[CodeIncompleteWindow], convey.ShouldEqual, 1)
			convey.So(codes[CodeWindowAfterEventStart], convey.ShouldEqual, 2)
		})
	})

	convey.Convey("Without a schedule, windows are only checked for order", t, func() {
		d := New("standard")
		end := ts("2025-05-01T00:00:00Z")
		start := ts("2025-05-15T00:00:00Z")
		d.StaffWindow = Window{Start: &start, End: &end}
		errs := CheckWindows(d)
		convey.So(len(errs), convey.ShouldEqual, 1)
		convey.So(errs[0].Code, convey.ShouldEqual, CodeInvalidWindowOrder)
	})
}

func TestCheckWindowEdit(t *testing.T) {
	convey.Convey("Given an event starting on 2025-06-01", t, func() {
		d := withFirstSession("2025-06-01T09:00:00Z")

		convey.Convey("A half-set window is fine mid-edit", func() {
			start := ts("2025-05-01T00:00:00Z")
			edited := SetWindowStart(d, WindowStaff, &start)
			convey.So(CheckWindowEdit(edited, WindowStaff), convey.ShouldBeEmpty)
		})

		convey.Convey("A set boundary is still checked against the event start", func() {
			late := ts("2025-06-02T00:00:00Z")
			edited := SetWindowEnd(d, WindowStaff, &late)
			errs := CheckWindowEdit(edited, WindowStaff)
			convey.So(len(errs), convey.ShouldEqual, 1)
			convey.So(errs[0].Code, convey.ShouldEqual, CodeWindowAfterEventStart)
			convey.So(errs[0].Field, convey.ShouldEqual, "staffWindow.end")
		})

		convey.Convey("Partial edits commute", func() {
			start := ts("2025-05-01T00:00:00Z")
			end := ts("2025-05-15T00:00:00Z")

			startFirst := SetWindowEnd(SetWindowStart(d, WindowParticipant, &start), WindowParticipant, &end)
			endFirst := SetWindowStart(SetWindowEnd(d, WindowParticipant, &end), WindowParticipant, &start)

			convey.So(startFirst.ParticipantWindow.Start.Equal(*endFirst.ParticipantWindow.Start), convey.ShouldBeTrue)
			convey.So(startFirst.ParticipantWindow.End.Equal(*endFirst.ParticipantWindow.End), convey.ShouldBeTrue)
			convey.So(CheckWindowEdit(startFirst, WindowParticipant), convey.ShouldBeEmpty)
			convey.So(CheckWindowEdit(endFirst, WindowParticipant), convey.ShouldBeEmpty)
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Validate combines schedule and window findings", t, func() {
		d := withFirstSession("2025-06-01T09:00:00Z")
		// Bounds never synced, staff window half set
		start := ts("2025-05-01T00:00:00Z")
		d.StaffWindow = Window{Start: &start}

		errs := Validate(d)
		codes := map[string]bool{}
		for _, e := range errs {
			codes[e.Code] = true
		}
		convey.So(codes[CodeMissingEventBounds], convey.ShouldBeTrue)
		convey.So(codes[CodeIncompleteWindow], convey.ShouldBeTrue)

		convey.Convey("After syncing and completing the window it passes", func() {
			end := ts("2025-05-15T00:00:00Z")
			fixed := SyncBasicFields(SetWindowEnd(d, WindowStaff, &end))
			convey.So(Validate(fixed), convey.ShouldBeEmpty)
		})
	})
}
