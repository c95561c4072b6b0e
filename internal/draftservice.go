package internal

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cwaldner/rostra/internal/draft"
	"github.com/cwaldner/rostra/internal/log"
	"github.com/cwaldner/rostra/internal/models"
	"github.com/cwaldner/rostra/internal/repos"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// DraftService owns the event edit sessions. Opening an event copies it into an
// in-memory draft; all roster, schedule and window edits run against that draft
// through the pure functions of the draft package, and only a draft that passes the
// save-time validation is handed back to the event storage
type DraftService interface {
	// Open starts an edit session for a persisted event
	Open(ctx context.Context, eventID uint) (*DraftState, error)
	// OpenNew starts an edit session for a new, unpersisted event of the given kind
	OpenNew(ctx context.Context, kind string) (*DraftState, error)
	// Get returns the current state of an edit session
	Get(ctx context.Context, token string) (*DraftState, error)
	// Discard ends an edit session without saving
	Discard(ctx context.Context, token string) error

	// MoveStaff moves a person between staff roster categories
	MoveStaff(ctx context.Context, token string, req *RosterMoveRequest) (*DraftState, error)
	// RemoveStaff takes a person off the staff roster
	RemoveStaff(ctx context.Context, token string, req *RosterEntryRequest) (*DraftState, error)
	// AddStaffCandidate puts a person into the potential staff category
	AddStaffCandidate(ctx context.Context, token string, personID uint) (*DraftState, error)
	// PromoteLeader grants a co-leader flag to a committed staffer
	PromoteLeader(ctx context.Context, token string, personID uint) (*DraftState, error)
	// DemoteLeader removes a co-leader flag
	DemoteLeader(ctx context.Context, token string, personID uint) (*DraftState, error)
	// SetPrimaryLeader assigns the primary leader; 0 clears the assignment
	SetPrimaryLeader(ctx context.Context, token string, personID uint) (*DraftState, error)
	// MoveParticipant moves a person between participant roster categories
	MoveParticipant(ctx context.Context, token string, req *RosterMoveRequest) (*DraftState, error)
	// RemoveParticipant takes a person off the participant roster
	RemoveParticipant(ctx context.Context, token string, req *RosterEntryRequest) (*DraftState, error)
	// AddParticipantCandidate puts a person into the potential participant category
	AddParticipantCandidate(ctx context.Context, token string, personID uint) (*DraftState, error)

	// SetSchedule replaces the session schedule and re-derives the event bounds
	SetSchedule(ctx context.Context, token string, sessions []draft.Session) (*DraftState, error)
	// SetWindowStart sets the opening boundary of an application window
	SetWindowStart(ctx context.Context, token string, role string, value *time.Time) (*DraftState, error)
	// SetWindowEnd sets the closing boundary of an application window
	SetWindowEnd(ctx context.Context, token string, role string, value *time.Time) (*DraftState, error)

	// Validate runs all save-time checks without saving
	Validate(ctx context.Context, token string) (*DraftState, error)
	// Save validates the draft and hands it to the event storage. Rule violations
	// block the save; afterwards the edit session continues on the persisted version
	Save(ctx context.Context, token string) (*DraftState, error)
}

// DraftState is the response shape of every draft operation: the current draft, the
// roster tallies for capacity warnings and - where a validation ran - its findings
type DraftState struct {
	Token    string           `json:"token"`
	Draft    draft.EventDraft `json:"draft"`
	Counts   draft.Counts     `json:"counts"`
	Findings []draft.RuleError `json:"findings,omitempty"`
}

// -- DraftService implementation --------------------------------------------------------------------------------------

type draftService struct {
	drafts repos.DraftRepo
	events repos.EventRepo
	logger *logrus.Entry
}

// NewDraftService creates a new draft service instance
func NewDraftService(drafts repos.DraftRepo, events repos.EventRepo, logger *logrus.Entry) DraftService {
	return &draftService{
		drafts: drafts,
		events: events,
		logger: logger,
	}
}

func makeState(token string, d draft.EventDraft, findings []draft.RuleError) *DraftState {
	return &DraftState{
		Token:    token,
		Draft:    d,
		Counts:   draft.RosterCounts(d),
		Findings: findings,
	}
}

// load fetches the draft behind a token or reports that the edit session is gone
func (s *draftService) load(token string) (*draft.EventDraft, error) {
	d, err := s.drafts.Get(token)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, MakeError(http.StatusNotFound, ErrCodeDraftNotFound,
				"The event draft does not exist or has expired",
			)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while retrieving the event draft", err,
		)
	}
	return d, nil
}

// store replaces the session's draft state after a successful edit
func (s *draftService) store(token string, d draft.EventDraft) error {
	if err := s.drafts.Replace(token, d); err != nil {
		if err == repos.ErrEntityNotExisting {
			return MakeError(http.StatusNotFound, ErrCodeDraftNotFound,
				"The event draft does not exist or has expired",
			)
		}
		return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while storing the event draft", err,
		)
	}
	return nil
}

// Open starts an edit session for a persisted event
func (s *draftService) Open(ctx context.Context, eventID uint) (*DraftState, error) {
	ev, err := s.events.GetByID(eventID)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, MakeError(http.StatusNotFound, ErrCodeEventNotFound,
				fmt.Sprintf("Event #%d does not exist", eventID),
			)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving event #%d", eventID), err,
		)
	}
	d := draft.FromEvent(ev)
	token, err := s.drafts.Create(d)
	if err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while registering the event draft", err,
		)
	}
	s.logger.WithFields(logrus.Fields{
		log.FldEvent: eventID,
		log.FldDraft: token,
	}).Info("Opened event draft")
	return makeState(token, d, nil), nil
}

// OpenNew starts an edit session for a new event
func (s *draftService) OpenNew(ctx context.Context, kind string) (*DraftState, error) {
	if kind == "" {
		kind = models.EventKindStandard
	}
	if !models.ValidEventKind(kind) {
		return nil, MakeErrorWithData(
			http.StatusBadRequest,
			ErrCodeIllegalValue,
			fmt.Sprintf("'%s' is not a valid event kind", kind),
			map[string]string{
				"field": "kind",
			},
		)
	}
	d := draft.New(kind)
	token, err := s.drafts.Create(d)
	if err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while registering the event draft", err,
		)
	}
	s.logger.WithField(log.FldDraft, token).Info("Opened draft for new event")
	return makeState(token, d, nil), nil
}

// Get returns the current state of an edit session
func (s *draftService) Get(ctx context.Context, token string) (*DraftState, error) {
	d, err := s.load(token)
	if err != nil {
		return nil, err
	}
	return makeState(token, *d, nil), nil
}

// Discard ends an edit session without saving. Nothing was persisted, so there is
// nothing to roll back
func (s *draftService) Discard(ctx context.Context, token string) error {
	if err := s.drafts.Delete(token); err != nil {
		return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while discarding the event draft", err,
		)
	}
	s.logger.WithField(log.FldDraft, token).Info("Discarded event draft")
	return nil
}

// apply runs one pure draft transformation inside an edit session
func (s *draftService) apply(token string, op func(draft.EventDraft) (draft.EventDraft, error)) (*DraftState, error) {
	d, err := s.load(token)
	if err != nil {
		return nil, err
	}
	updated, err := op(*d)
	if err != nil {
		if re, ok := err.(*draft.RuleError); ok {
			return nil, MakeErrorWithData(
				http.StatusUnprocessableEntity,
				re.Code,
				re.Message,
				map[string]string{
					"field": re.Field,
				},
			)
		}
		return nil, err
	}
	if err := s.store(token, updated); err != nil {
		return nil, err
	}
	return makeState(token, updated, nil), nil
}

// MoveStaff moves a person between staff roster categories
func (s *draftService) MoveStaff(ctx context.Context, token string, req *RosterMoveRequest) (*DraftState, error) {
	return s.apply(token, func(d draft.EventDraft) (draft.EventDraft, error) {
		return draft.MoveStaff(d, draft.PersonID(req.PersonID),
			draft.StaffCategory(req.From), draft.StaffCategory(req.To))
	})
}

// RemoveStaff takes a person off the staff roster
func (s *draftService) RemoveStaff(ctx context.Context, token string, req *RosterEntryRequest) (*DraftState, error) {
	return s.apply(token, func(d draft.EventDraft) (draft.EventDraft, error) {
		return draft.RemoveStaff(d, draft.PersonID(req.PersonID), draft.StaffCategory(req.Category)), nil
	})
}

// AddStaffCandidate puts a person into the potential staff category
func (s *draftService) AddStaffCandidate(ctx context.Context, token string, personID uint) (*DraftState, error) {
	return s.apply(token, func(d draft.EventDraft) (draft.EventDraft, error) {
		return draft.AddStaffCandidate(d, draft.PersonID(personID)), nil
	})
}

// PromoteLeader grants a co-leader flag to a committed staffer
func (s *draftService) PromoteLeader(ctx context.Context, token string, personID uint) (*DraftState, error) {
	return s.apply(token, func(d draft.EventDraft) (draft.EventDraft, error) {
		return draft.PromoteToLeader(d, draft.PersonID(personID)), nil
	})
}

// DemoteLeader removes a co-leader flag
func (s *draftService) DemoteLeader(ctx context.Context, token string, personID uint) (*DraftState, error) {
	return s.apply(token, func(d draft.EventDraft) (draft.EventDraft, error) {
		return draft.DemoteLeader(d, draft.PersonID(personID)), nil
	})
}

// SetPrimaryLeader assigns the primary leader; 0 clears the assignment
func (s *draftService) SetPrimaryLeader(ctx context.Context, token string, personID uint) (*DraftState, error) {
	return s.apply(token, func(d draft.EventDraft) (draft.EventDraft, error) {
		return draft.SetPrimaryLeader(d, draft.PersonID(personID)), nil
	})
}

// MoveParticipant moves a person between participant roster categories
func (s *draftService) MoveParticipant(ctx context.Context, token string, req *RosterMoveRequest) (*DraftState, error) {
	return s.apply(token, func(d draft.EventDraft) (draft.EventDraft, error) {
		return draft.MoveParticipant(d, draft.PersonID(req.PersonID),
			draft.ParticipantCategory(req.From), draft.ParticipantCategory(req.To))
	})
}

// RemoveParticipant takes a person off the participant roster
func (s *draftService) RemoveParticipant(ctx context.Context, token string, req *RosterEntryRequest) (*DraftState, error) {
	return s.apply(token, func(d draft.EventDraft) (draft.EventDraft, error) {
		return draft.RemoveParticipant(d, draft.PersonID(req.PersonID), draft.ParticipantCategory(req.Category)), nil
	})
}

// AddParticipantCandidate puts a person into the potential participant category
func (s *draftService) AddParticipantCandidate(ctx context.Context, token string, personID uint) (*DraftState, error) {
	return s.apply(token, func(d draft.EventDraft) (draft.EventDraft, error) {
		return draft.AddParticipantCandidate(d, draft.PersonID(personID)), nil
	})
}

// SetSchedule replaces the session schedule, re-derives the bounds and reports the
// resulting sync state so the editor gets immediate feedback
func (s *draftService) SetSchedule(ctx context.Context, token string, sessions []draft.Session) (*DraftState, error) {
	for i, sess := range sessions {
		if !sess.Start.Before(sess.End) {
			return nil, MakeErrorWithData(
				http.StatusBadRequest,
				ErrCodeIllegalValue,
				fmt.Sprintf("Session #%d must start before it ends", i+1),
				map[string]interface{}{
					"session": i,
				},
			)
		}
	}
	d, err := s.load(token)
	if err != nil {
		return nil, err
	}
	updated := *d
	updated.Schedule = append([]draft.Session(nil), sessions...)
	updated = draft.SyncBasicFields(updated)
	if err := s.store(token, updated); err != nil {
		return nil, err
	}
	findings := draft.ValidateSync(updated)
	findings = append(findings, draft.CheckWindowEdit(updated, draft.WindowStaff)...)
	findings = append(findings, draft.CheckWindowEdit(updated, draft.WindowParticipant)...)
	return makeState(token, updated, findings), nil
}

func checkWindowRole(role string) error {
	if role != draft.WindowStaff && role != draft.WindowParticipant {
		return MakeErrorWithData(
			http.StatusBadRequest,
			ErrCodeIllegalValue,
			fmt.Sprintf("'%s' is not a valid application window", role),
			map[string]string{
				"field": "role",
			},
		)
	}
	return nil
}

// setWindowBoundary applies one partial window edit and returns the next-keystroke
// findings for that window
func (s *draftService) setWindowBoundary(token, role string, edit func(draft.EventDraft) draft.EventDraft) (*DraftState, error) {
	if err := checkWindowRole(role); err != nil {
		return nil, err
	}
	d, err := s.load(token)
	if err != nil {
		return nil, err
	}
	updated := edit(*d)
	if err := s.store(token, updated); err != nil {
		return nil, err
	}
	return makeState(token, updated, draft.CheckWindowEdit(updated, role)), nil
}

// SetWindowStart sets the opening boundary of an application window
func (s *draftService) SetWindowStart(ctx context.Context, token string, role string, value *time.Time) (*DraftState, error) {
	return s.setWindowBoundary(token, role, func(d draft.EventDraft) draft.EventDraft {
		return draft.SetWindowStart(d, role, value)
	})
}

// SetWindowEnd sets the closing boundary of an application window
func (s *draftService) SetWindowEnd(ctx context.Context, token string, role string, value *time.Time) (*DraftState, error) {
	return s.setWindowBoundary(token, role, func(d draft.EventDraft) draft.EventDraft {
		return draft.SetWindowEnd(d, role, value)
	})
}

// Validate runs all save-time checks without saving
func (s *draftService) Validate(ctx context.Context, token string) (*DraftState, error) {
	d, err := s.load(token)
	if err != nil {
		return nil, err
	}
	return makeState(token, *d, draft.Validate(*d)), nil
}

// Save validates the draft and hands it to the event storage. The draft itself is
// never mutated here - on success the edit session continues on a fresh copy of the
// persisted version
func (s *draftService) Save(ctx context.Context, token string) (*DraftState, error) {
	d, err := s.load(token)
	if err != nil {
		return nil, err
	}
	if findings := draft.Validate(*d); len(findings) > 0 {
		return nil, MakeErrorWithData(
			http.StatusUnprocessableEntity,
			ErrCodeDraftValidationFailed,
			"The event draft violates editing rules and cannot be saved",
			findings,
		)
	}
	ev := draft.ToEvent(*d)
	if d.IsNew() {
		err = s.events.Create(ev)
	} else {
		err = s.events.Update(ev)
	}
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, MakeError(http.StatusNotFound, ErrCodeEventNotFound,
				fmt.Sprintf("Event #%d does not exist", d.EventID),
			)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while saving the event", err,
		)
	}
	// Refresh the edit session from the persisted version
	persisted, err := s.events.GetByID(ev.ID)
	if err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while reloading event #%d after save", ev.ID), err,
		)
	}
	refreshed := draft.FromEvent(persisted)
	if err := s.store(token, refreshed); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		log.FldEvent: ev.ID,
		log.FldDraft: token,
	}).Info("Saved event draft")
	return makeState(token, refreshed, nil), nil
}
