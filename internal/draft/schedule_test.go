package draft

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDeriveBounds(t *testing.T) {
	convey.Convey("Given a two-day session schedule", t, func() {
		sessions := []Session{
			{Start: ts("2025-06-01T09:00:00Z"), End: ts("2025-06-01T17:00:00Z")},
			{Start: ts("2025-06-02T09:00:00Z"), End: ts("2025-06-02T17:00:00Z")},
		}

		convey.Convey("The bounds span from the first start to the last end", func() {
			start, end := DeriveBounds(sessions)
			convey.So(start, convey.ShouldNotBeNil)
			convey.So(end, convey.ShouldNotBeNil)
			convey.So(start.Equal(ts("2025-06-01T09:00:00Z")), convey.ShouldBeTrue)
			convey.So(end.Equal(ts("2025-06-02T17:00:00Z")), convey.ShouldBeTrue)
		})

		convey.Convey("Shuffling the schedule yields the same bounds", func() {
			reversed := []Session{sessions[1], sessions[0]}
			start, end := DeriveBounds(reversed)
			convey.So(start.Equal(ts("2025-06-01T09:00:00Z")), convey.ShouldBeTrue)
			convey.So(end.Equal(ts("2025-06-02T17:00:00Z")), convey.ShouldBeTrue)
		})
	})

	convey.Convey("An empty schedule has no bounds", t, func() {
		start, end := DeriveBounds(nil)
		convey.So(start, convey.ShouldBeNil)
		convey.So(end, convey.ShouldBeNil)
	})
}

func TestSyncBasicFields(t *testing.T) {
	convey.Convey("Given a draft with a schedule", t, func() {
		d := New("standard")
		d.Schedule = []Session{
			{Start: ts("2025-06-01T09:00:00Z"), End: ts("2025-06-01T17:00:00Z")},
		}

		convey.Convey("Syncing sets the overall bounds", func() {
			synced := SyncBasicFields(d)
			convey.So(synced.StartAt, convey.ShouldNotBeNil)
			convey.So(synced.EndAt, convey.ShouldNotBeNil)
			convey.So(synced.StartAt.Equal(ts("2025-06-01T09:00:00Z")), convey.ShouldBeTrue)
			convey.So(synced.EndAt.Equal(ts("2025-06-01T17:00:00Z")), convey.ShouldBeTrue)
		})

		convey.Convey("Syncing and validating never reports a mismatch", func() {
			synced := SyncBasicFields(d)
			convey.So(ValidateSync(synced), convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given a draft with manual bounds and no schedule", t, func() {
		d := New("standard")
		manualStart := ts("2025-05-01T10:00:00Z")
		manualEnd := ts("2025-05-01T18:00:00Z")
		d.StartAt = &manualStart
		d.EndAt = &manualEnd

		convey.Convey("Syncing keeps the manual bounds", func() {
			synced := SyncBasicFields(d)
			convey.So(synced.StartAt.Equal(manualStart), convey.ShouldBeTrue)
			convey.So(synced.EndAt.Equal(manualEnd), convey.ShouldBeTrue)
		})
	})
}

func TestValidateSync(t *testing.T) {
	convey.Convey("A draft without sessions is always in sync", t, func() {
		d := New("standard")
		convey.So(ValidateSync(d), convey.ShouldBeEmpty)

		bogus := ts("1999-01-01T00:00:00Z")
		d.StartAt = &bogus
		convey.So(ValidateSync(d), convey.ShouldBeEmpty)
	})

	convey.Convey("Given a draft with sessions", t, func() {
		d := New("standard")
		d.Schedule = []Session{
			{Start: ts("2025-06-01T09:00:00Z"), End: ts("2025-06-01T17:00:00Z")},
		}

		convey.Convey("Missing bounds are reported per boundary", func() {
			errs := ValidateSync(d)
			convey.So(len(errs), convey.ShouldEqual, 2)
			convey.So(errs[0].Code, convey.ShouldEqual, CodeMissingEventBounds)
			convey.So(errs[0].Field, convey.ShouldEqual, "startAt")
			convey.So(errs[1].Code, convey.ShouldEqual, CodeMissingEventBounds)
			convey.So(errs[1].Field, convey.ShouldEqual, "endAt")
		})

		convey.Convey("Bounds differing from the derived ones are a mismatch", func() {
			wrongStart := ts("2025-06-01T08:00:00Z")
			rightEnd := ts("2025-06-01T17:00:00Z")
			d.StartAt = &wrongStart
			d.EndAt = &rightEnd
			errs := ValidateSync(d)
			convey.So(len(errs), convey.ShouldEqual, 1)
			convey.So(errs[0].Code, convey.ShouldEqual, CodeBoundsMismatch)
			convey.So(errs[0].Field, convey.ShouldEqual, "startAt")
		})

		convey.Convey("Matching bounds validate cleanly", func() {
			start := ts("2025-06-01T09:00:00Z")
			end := ts("2025-06-01T17:00:00Z")
			d.StartAt = &start
			d.EndAt = &end
			convey.So(ValidateSync(d), convey.ShouldBeEmpty)
		})
	})
}
