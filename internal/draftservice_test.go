package internal

import (
	"testing"
	"time"

	"github.com/cwaldner/rostra/internal/draft"
	"github.com/cwaldner/rostra/internal/models"
	"github.com/cwaldner/rostra/internal/repos"
	draftrepo "github.com/cwaldner/rostra/internal/repos/draft/inmem"
	"github.com/sirupsen/logrus"
	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/net/context"
)

// fakeEventRepo keeps the persisted events in a plain map so that the draft service
// can be exercised without a database
type fakeEventRepo struct {
	events map[uint]models.Event
	nextID uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: map[uint]models.Event{},
		nextID: 1,
	}
}

func (r *fakeEventRepo) Create(ev *models.Event) error {
	ev.ID = r.nextID
	r.nextID++
	r.events[ev.ID] = *ev
	return nil
}

func (r *fakeEventRepo) Update(ev *models.Event) error {
	if _, ok := r.events[ev.ID]; !ok {
		return repos.ErrEntityNotExisting
	}
	r.events[ev.ID] = *ev
	return nil
}

func (r *fakeEventRepo) Delete(id uint) error {
	if _, ok := r.events[id]; !ok {
		return repos.ErrEntityNotExisting
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) GetByID(id uint) (*models.Event, error) {
	ev, ok := r.events[id]
	if !ok {
		return nil, repos.ErrEntityNotExisting
	}
	return &ev, nil
}

func (r *fakeEventRepo) Find(search string, offset uint, limit uint) ([]models.Event, uint, error) {
	var ret []models.Event
	for _, ev := range r.events {
		ret = append(ret, ev)
	}
	return ret, uint(len(ret)), nil
}

func makeTestDraftService() (DraftService, *fakeEventRepo) {
	events := newFakeEventRepo()
	drafts := draftrepo.New(time.Minute)
	logger := logrus.WithField("test", true)
	return NewDraftService(drafts, events, logger), events
}

func TestDraftLifecycle(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a draft service without persisted events", t, func() {
		s, events := makeTestDraftService()

		convey.Convey("When a draft for a new event is opened", func() {
			state, err := s.OpenNew(ctx, models.EventKindNWTA)

			convey.So(err, convey.ShouldBeNil)
			convey.So(state.Token, convey.ShouldNotBeEmpty)
			convey.So(state.Draft.IsNew(), convey.ShouldBeTrue)

			convey.Convey("Then it can be fetched again under its token", func() {
				again, err := s.Get(ctx, state.Token)

				convey.So(err, convey.ShouldBeNil)
				convey.So(again.Draft.Kind, convey.ShouldEqual, models.EventKindNWTA)
			})

			convey.Convey("Then discarding it leaves nothing behind", func() {
				convey.So(s.Discard(ctx, state.Token), convey.ShouldBeNil)

				_, err := s.Get(ctx, state.Token)
				herr, ok := err.(*HTTPError)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(herr.ErrorCode(), convey.ShouldEqual, ErrCodeDraftNotFound)
				convey.So(len(events.events), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When an unknown event kind is requested", func() {
			_, err := s.OpenNew(ctx, "gala")

			herr, ok := err.(*HTTPError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(herr.ErrorCode(), convey.ShouldEqual, ErrCodeIllegalValue)
		})

		convey.Convey("When an unknown token is used", func() {
			_, err := s.Get(ctx, "no-such-token")

			herr, ok := err.(*HTTPError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(herr.ErrorCode(), convey.ShouldEqual, ErrCodeDraftNotFound)
		})

		convey.Convey("When a draft for a missing event is opened", func() {
			_, err := s.Open(ctx, 42)

			herr, ok := err.(*HTTPError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(herr.ErrorCode(), convey.ShouldEqual, ErrCodeEventNotFound)
		})
	})
}

func TestDraftRosterEditing(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given an open draft for a new event", t, func() {
		s, _ := makeTestDraftService()
		state, err := s.OpenNew(ctx, models.EventKindStandard)
		convey.So(err, convey.ShouldBeNil)
		token := state.Token

		convey.Convey("When a staff candidate is added and committed", func() {
			_, err := s.AddStaffCandidate(ctx, token, 5)
			convey.So(err, convey.ShouldBeNil)

			state, err := s.MoveStaff(ctx, token, &RosterMoveRequest{
				PersonID: 5,
				From:     string(draft.StaffPotential),
				To:       string(draft.StaffCommitted),
			})

			convey.So(err, convey.ShouldBeNil)
			convey.So(state.Draft.Staff[5], convey.ShouldEqual, draft.StaffCommitted)
			convey.So(state.Counts.CommittedStaff, convey.ShouldEqual, 1)
		})

		convey.Convey("When a move names a category the person is not in", func() {
			_, err := s.AddStaffCandidate(ctx, token, 5)
			convey.So(err, convey.ShouldBeNil)

			_, err = s.MoveStaff(ctx, token, &RosterMoveRequest{
				PersonID: 5,
				From:     string(draft.StaffAlternate),
				To:       string(draft.StaffCommitted),
			})

			herr, ok := err.(*HTTPError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(herr.Status(), convey.ShouldEqual, 422)
			convey.So(herr.ErrorCode(), convey.ShouldEqual, draft.CodeInvalidTransition)

			convey.Convey("Then the draft is left untouched", func() {
				state, err := s.Get(ctx, token)

				convey.So(err, convey.ShouldBeNil)
				convey.So(state.Draft.Staff[5], convey.ShouldEqual, draft.StaffPotential)
			})
		})

		convey.Convey("When a move targets a made-up category", func() {
			_, err := s.AddStaffCandidate(ctx, token, 5)
			convey.So(err, convey.ShouldBeNil)

			_, err = s.MoveStaff(ctx, token, &RosterMoveRequest{
				PersonID: 5,
				From:     string(draft.StaffPotential),
				To:       "bogus",
			})

			herr, ok := err.(*HTTPError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(herr.Status(), convey.ShouldEqual, 422)
			convey.So(herr.ErrorCode(), convey.ShouldEqual, draft.CodeInvalidTransition)

			convey.Convey("Then the person is still counted where they were", func() {
				state, err := s.Get(ctx, token)

				convey.So(err, convey.ShouldBeNil)
				convey.So(state.Draft.Staff[5], convey.ShouldEqual, draft.StaffPotential)
				convey.So(state.Counts.PotentialStaff, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When a participant is added and removed again", func() {
			_, err := s.AddParticipantCandidate(ctx, token, 9)
			convey.So(err, convey.ShouldBeNil)

			state, err := s.RemoveParticipant(ctx, token, &RosterEntryRequest{
				PersonID: 9,
				Category: string(draft.ParticipantPotential),
			})

			convey.So(err, convey.ShouldBeNil)
			convey.So(len(state.Draft.Participants), convey.ShouldEqual, 0)
		})
	})
}

func TestDraftScheduleAndWindows(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)

	convey.Convey("Given an open draft for a new event", t, func() {
		s, _ := makeTestDraftService()
		state, err := s.OpenNew(ctx, models.EventKindNWTA)
		convey.So(err, convey.ShouldBeNil)
		token := state.Token

		convey.Convey("When a schedule is set", func() {
			state, err := s.SetSchedule(ctx, token, []draft.Session{{Start: start, End: end}})

			convey.So(err, convey.ShouldBeNil)
			convey.So(state.Draft.StartAt, convey.ShouldNotBeNil)
			convey.So(state.Draft.StartAt.Equal(start), convey.ShouldBeTrue)
			convey.So(state.Draft.EndAt.Equal(end), convey.ShouldBeTrue)
			convey.So(len(state.Findings), convey.ShouldEqual, 0)

			convey.Convey("And a window boundary after the event start is set", func() {
				late := start.Add(time.Hour)
				state, err := s.SetWindowEnd(ctx, token, draft.WindowStaff, &late)

				convey.So(err, convey.ShouldBeNil)

				codes := findingCodes(state.Findings)
				convey.So(codes, convey.ShouldContain, draft.CodeWindowAfterEventStart)
			})
		})

		convey.Convey("When a session ends before it starts", func() {
			_, err := s.SetSchedule(ctx, token, []draft.Session{{Start: end, End: start}})

			herr, ok := err.(*HTTPError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(herr.ErrorCode(), convey.ShouldEqual, ErrCodeIllegalValue)
		})

		convey.Convey("When an unknown window role is named", func() {
			_, err := s.SetWindowStart(ctx, token, "sponsor", &start)

			herr, ok := err.(*HTTPError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(herr.ErrorCode(), convey.ShouldEqual, ErrCodeIllegalValue)
		})
	})
}

func TestDraftSave(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)

	convey.Convey("Given a draft with a half-set application window", t, func() {
		s, events := makeTestDraftService()
		state, err := s.OpenNew(ctx, models.EventKindStandard)
		convey.So(err, convey.ShouldBeNil)
		token := state.Token

		windowStart := start.Add(-14 * 24 * time.Hour)
		_, err = s.SetWindowStart(ctx, token, draft.WindowParticipant, &windowStart)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the draft is saved", func() {
			_, err := s.Save(ctx, token)

			convey.Convey("Then the save is blocked and nothing is persisted", func() {
				herr, ok := err.(*HTTPError)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(herr.Status(), convey.ShouldEqual, 422)
				convey.So(herr.ErrorCode(), convey.ShouldEqual, ErrCodeDraftValidationFailed)

				findings, ok := herr.Data().([]draft.RuleError)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(findingCodes(findings), convey.ShouldContain, draft.CodeIncompleteWindow)
				convey.So(len(events.events), convey.ShouldEqual, 0)
			})

			convey.Convey("And a Validate call reports the same violation without saving", func() {
				state, err := s.Validate(ctx, token)

				convey.So(err, convey.ShouldBeNil)
				convey.So(findingCodes(state.Findings), convey.ShouldContain, draft.CodeIncompleteWindow)
			})
		})
	})

	convey.Convey("Given a fully valid draft for a new event", t, func() {
		s, events := makeTestDraftService()
		state, err := s.OpenNew(ctx, models.EventKindNWTA)
		convey.So(err, convey.ShouldBeNil)
		token := state.Token

		_, err = s.AddStaffCandidate(ctx, token, 3)
		convey.So(err, convey.ShouldBeNil)
		_, err = s.MoveStaff(ctx, token, &RosterMoveRequest{
			PersonID: 3,
			From:     string(draft.StaffPotential),
			To:       string(draft.StaffCommitted),
		})
		convey.So(err, convey.ShouldBeNil)
		_, err = s.SetPrimaryLeader(ctx, token, 3)
		convey.So(err, convey.ShouldBeNil)
		_, err = s.SetSchedule(ctx, token, []draft.Session{{Start: start, End: end}})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the draft is saved", func() {
			state, err := s.Save(ctx, token)

			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the event has been persisted with roster and bounds", func() {
				convey.So(len(events.events), convey.ShouldEqual, 1)
				ev := events.events[1]
				convey.So(ev.Kind, convey.ShouldEqual, models.EventKindNWTA)
				convey.So(ev.PrimaryLeaderID, convey.ShouldEqual, 3)
				convey.So(len(ev.Roster), convey.ShouldEqual, 1)
				convey.So(ev.Roster[0].Category, convey.ShouldEqual, models.CategoryCommitted)
				convey.So(ev.StartsAt.Equal(start), convey.ShouldBeTrue)
				convey.So(ev.EndsAt.Equal(end), convey.ShouldBeTrue)
			})

			convey.Convey("Then the edit session continues on the persisted version", func() {
				convey.So(state.Draft.IsNew(), convey.ShouldBeFalse)
				convey.So(state.Draft.EventID, convey.ShouldEqual, 1)

				again, err := s.Get(ctx, token)
				convey.So(err, convey.ShouldBeNil)
				convey.So(again.Draft.EventID, convey.ShouldEqual, 1)
			})

			convey.Convey("Then saving again updates the same event", func() {
				_, err := s.AddParticipantCandidate(ctx, token, 8)
				convey.So(err, convey.ShouldBeNil)

				_, err = s.Save(ctx, token)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(events.events), convey.ShouldEqual, 1)
				convey.So(len(events.events[1].Roster), convey.ShouldEqual, 2)
			})
		})
	})
}

func findingCodes(findings []draft.RuleError) []string {
	var ret []string
	for _, f := range findings {
		ret = append(ret, f.Code)
	}
	return ret
}
