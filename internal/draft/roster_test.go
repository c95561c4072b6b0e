package draft

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestMoveStaff(t *testing.T) {
	convey.Convey("Given a draft with one potential staffer", t, func() {
		d := New("nwta")
		d.Staff[1] = StaffPotential

		convey.Convey("When the person is moved to the committed category", func() {
			moved, err := MoveStaff(d, 1, StaffPotential, StaffCommitted)

			convey.So(err, convey.ShouldBeNil)
			convey.So(moved.Staff[1], convey.ShouldEqual, StaffCommitted)
			convey.So(len(moved.Staff), convey.ShouldEqual, 1)
			convey.So(len(moved.Leaders), convey.ShouldEqual, 0)

			convey.Convey("Then the input draft is untouched", func() {
				convey.So(d.Staff[1], convey.ShouldEqual, StaffPotential)
			})
		})

		convey.Convey("When the move names a category the person is not in", func() {
			_, err := MoveStaff(d, 1, StaffAlternate, StaffCommitted)

			re, ok := err.(*RuleError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(re.Code, convey.ShouldEqual, CodeInvalidTransition)
		})

		convey.Convey("When the move names an unknown person", func() {
			_, err := MoveStaff(d, 99, StaffPotential, StaffCommitted)

			re, ok := err.(*RuleError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(re.Code, convey.ShouldEqual, CodeInvalidTransition)
		})

		convey.Convey("When the target is not a staff category", func() {
			out, err := MoveStaff(d, 1, StaffPotential, StaffCategory("bogus"))

			re, ok := err.(*RuleError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(re.Code, convey.ShouldEqual, CodeInvalidTransition)

			convey.Convey("Then the person stays where they were", func() {
				convey.So(out.Staff[1], convey.ShouldEqual, StaffPotential)
				convey.So(RosterCounts(out).PotentialStaff, convey.ShouldEqual, 1)
			})
		})
	})

	convey.Convey("Given a committed staffer holding a leader flag", t, func() {
		d := New("nwta")
		d.Staff[7] = StaffCommitted
		d.Leaders[7] = struct{}{}

		convey.Convey("When the person leaves the committed category", func() {
			moved, err := MoveStaff(d, 7, StaffCommitted, StaffAlternate)

			convey.So(err, convey.ShouldBeNil)
			convey.So(moved.Staff[7], convey.ShouldEqual, StaffAlternate)

			convey.Convey("Then the leader flag is gone as well", func() {
				_, stillLeader := moved.Leaders[7]
				convey.So(stillLeader, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the person is removed from the roster", func() {
			removed := RemoveStaff(d, 7, StaffCommitted)

			_, onRoster := removed.Staff[7]
			_, stillLeader := removed.Leaders[7]
			convey.So(onRoster, convey.ShouldBeFalse)
			convey.So(stillLeader, convey.ShouldBeFalse)
		})
	})
}

// Every pairing of distinct staff categories keeps the one-category invariant
func TestStaffCategoryPartition(t *testing.T) {
	categories := []StaffCategory{StaffPotential, StaffCommitted, StaffAlternate}
	for _, from := range categories {
		for _, to := range categories {
			if from == to {
				continue
			}
			d := New("standard")
			d.Staff[3] = from
			moved, err := MoveStaff(d, 3, from, to)
			if err != nil {
				t.Fatalf("move %s -> %s: %v", from, to, err)
			}
			if moved.Staff[3] != to {
				t.Fatalf("move %s -> %s: person ended up in %s", from, to, moved.Staff[3])
			}
			if len(moved.Staff) != 1 {
				t.Fatalf("move %s -> %s: person occupies %d categories", from, to, len(moved.Staff))
			}
		}
	}
}

func TestParticipantCategoryPartition(t *testing.T) {
	categories := []ParticipantCategory{ParticipantPotential, ParticipantCommitted, ParticipantWaitlist}
	for _, from := range categories {
		for _, to := range categories {
			if from == to {
				continue
			}
			d := New("standard")
			d.Participants[4] = from
			moved, err := MoveParticipant(d, 4, from, to)
			if err != nil {
				t.Fatalf("move %s -> %s: %v", from, to, err)
			}
			if moved.Participants[4] != to {
				t.Fatalf("move %s -> %s: person ended up in %s", from, to, moved.Participants[4])
			}
			if len(moved.Participants) != 1 {
				t.Fatalf("move %s -> %s: person occupies %d categories", from, to, len(moved.Participants))
			}
		}
	}
}

func TestLeadership(t *testing.T) {
	convey.Convey("Given a draft with staffers in every category", t, func() {
		d := New("nwta")
		d.Staff[1] = StaffPotential
		d.Staff[2] = StaffCommitted
		d.Staff[3] = StaffAlternate

		convey.Convey("Promoting a committed staffer grants the flag", func() {
			promoted := PromoteToLeader(d, 2)
			_, isLeader := promoted.Leaders[2]
			convey.So(isLeader, convey.ShouldBeTrue)
		})

		convey.Convey("Promoting a potential staffer is a no-op", func() {
			promoted := PromoteToLeader(d, 1)
			convey.So(len(promoted.Leaders), convey.ShouldEqual, 0)
		})

		convey.Convey("Promoting an alternate staffer is a no-op", func() {
			promoted := PromoteToLeader(d, 3)
			convey.So(len(promoted.Leaders), convey.ShouldEqual, 0)
		})

		convey.Convey("Promoting someone not on the roster is a no-op", func() {
			promoted := PromoteToLeader(d, 42)
			convey.So(len(promoted.Leaders), convey.ShouldEqual, 0)
		})

		convey.Convey("Promoting the primary leader is a no-op", func() {
			withPrimary := SetPrimaryLeader(d, 2)
			promoted := PromoteToLeader(withPrimary, 2)
			convey.So(len(promoted.Leaders), convey.ShouldEqual, 0)
		})

		convey.Convey("Making a co-leader the primary removes the co-leader flag", func() {
			promoted := PromoteToLeader(d, 2)
			withPrimary := SetPrimaryLeader(promoted, 2)
			convey.So(withPrimary.PrimaryLeaderID, convey.ShouldEqual, PersonID(2))
			_, stillCoLeader := withPrimary.Leaders[2]
			convey.So(stillCoLeader, convey.ShouldBeFalse)
		})

		convey.Convey("Clearing the primary leader leaves co-leaders alone", func() {
			promoted := PromoteToLeader(d, 2)
			cleared := SetPrimaryLeader(promoted, 0)
			convey.So(cleared.PrimaryLeaderID, convey.ShouldEqual, PersonID(0))
			_, isLeader := cleared.Leaders[2]
			convey.So(isLeader, convey.ShouldBeTrue)
		})

		convey.Convey("DemoteLeader only clears the flag", func() {
			promoted := PromoteToLeader(d, 2)
			demoted := DemoteLeader(promoted, 2)
			convey.So(len(demoted.Leaders), convey.ShouldEqual, 0)
			convey.So(demoted.Staff[2], convey.ShouldEqual, StaffCommitted)
		})
	})
}

func TestCandidatesAndCounts(t *testing.T) {
	convey.Convey("Given an empty draft", t, func() {
		d := New("standard")

		convey.Convey("Adding a staff candidate puts them into the potential category", func() {
			added := AddStaffCandidate(d, 5)
			convey.So(added.Staff[5], convey.ShouldEqual, StaffPotential)

			convey.Convey("Adding the same person again changes nothing", func() {
				again := AddStaffCandidate(added, 5)
				convey.So(again.Staff[5], convey.ShouldEqual, StaffPotential)
				convey.So(len(again.Staff), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("A committed staffer is not demoted by AddStaffCandidate", func() {
			d.Staff[5] = StaffCommitted
			added := AddStaffCandidate(d, 5)
			convey.So(added.Staff[5], convey.ShouldEqual, StaffCommitted)
		})

		convey.Convey("Participant candidates work the same way", func() {
			added := AddParticipantCandidate(d, 6)
			convey.So(added.Participants[6], convey.ShouldEqual, ParticipantPotential)
			again := AddParticipantCandidate(added, 6)
			convey.So(len(again.Participants), convey.ShouldEqual, 1)
		})

		convey.Convey("Removing an absent person is a quiet no-op", func() {
			removed := RemoveParticipant(d, 9, ParticipantWaitlist)
			convey.So(len(removed.Participants), convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given a populated roster", t, func() {
		d := New("nwta")
		d.Staff[1] = StaffCommitted
		d.Staff[2] = StaffCommitted
		d.Staff[3] = StaffAlternate
		d.Participants[10] = ParticipantCommitted
		d.Participants[11] = ParticipantWaitlist
		d.Participants[12] = ParticipantWaitlist
		d.Leaders[1] = struct{}{}

		convey.Convey("RosterCounts tallies every category", func() {
			c := RosterCounts(d)
			convey.So(c.CommittedStaff, convey.ShouldEqual, 2)
			convey.So(c.AlternateStaff, convey.ShouldEqual, 1)
			convey.So(c.PotentialStaff, convey.ShouldEqual, 0)
			convey.So(c.CommittedParticipants, convey.ShouldEqual, 1)
			convey.So(c.Waitlist, convey.ShouldEqual, 2)
			convey.So(c.Leaders, convey.ShouldEqual, 1)
		})

		convey.Convey("Moving a participant to a made-up category is rejected", func() {
			out, err := MoveParticipant(d, 10, ParticipantCommitted, ParticipantCategory("vip"))

			re, ok := err.(*RuleError)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(re.Code, convey.ShouldEqual, CodeInvalidTransition)
			convey.So(out.Participants[10], convey.ShouldEqual, ParticipantCommitted)
		})

		convey.Convey("Capacity never blocks a transition", func() {
			d.ParticipantCapacity = 1
			moved, err := MoveParticipant(d, 11, ParticipantWaitlist, ParticipantCommitted)
			convey.So(err, convey.ShouldBeNil)
			convey.So(RosterCounts(moved).CommittedParticipants, convey.ShouldEqual, 2)
		})
	})
}
