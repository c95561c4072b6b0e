package internal

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cwaldner/rostra/internal/models"
	"github.com/cwaldner/rostra/internal/repos"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// EventService provides service functions for working with persisted events.
// Everything touching an event's roster, schedule or publication windows goes through
// the draft service instead, so those fields can never bypass the editing rules
type EventService interface {
	List(ctx context.Context, search *Search) ([]models.Event, uint, error)
	Get(ctx context.Context, id uint) (*models.Event, error)
	// Update patches the basic fields of an event: name, description and flags
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error
}

// -- EventService implementation --------------------------------------------------------------------------------------

type eventService struct {
	repo   repos.EventRepo
	logger *logrus.Entry
}

// NewEventService creates a new event service instance
func NewEventService(repo repos.EventRepo, logger *logrus.Entry) EventService {
	return &eventService{
		repo:   repo,
		logger: logger,
	}
}

// List searches for events matching the given search term
func (s *eventService) List(ctx context.Context, search *Search) ([]models.Event, uint, error) {
	lists, numRows, err := s.repo.Find(search.Search, search.Offset, search.Limit)
	if err != nil {
		return nil, 0, MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			"Error while searching events",
			err,
		)
	}
	return lists, numRows, nil
}

// Get returns the event with the given ID
func (s *eventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	ev, err := s.repo.GetByID(id)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, MakeError(http.StatusNotFound, ErrCodeEventNotFound,
				fmt.Sprintf("Event #%d does not exist", id),
			)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving event #%d", id), err,
		)
	}
	return ev, nil
}

// Update patches the basic fields of an existing event. The roster, schedule, bounds
// and windows of the stored record are left untouched
func (s *eventService) Update(ctx context.Context, event *models.Event) error {
	originalEvent, err := s.Get(ctx, event.ID)
	if err != nil {
		return err
	}
	event.Name = strings.TrimSpace(event.Name)
	if event.Name != "" {
		originalEvent.Name = event.Name
	}
	originalEvent.Description = event.Description
	originalEvent.IsPublished = event.IsPublished
	originalEvent.IsActive = event.IsActive
	err = s.repo.Update(originalEvent)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return MakeError(
				http.StatusNotFound,
				ErrCodeEventNotFound,
				fmt.Sprintf("Event #%d does not exist", event.ID),
			)
		}
		return MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			fmt.Sprintf("Error while updating event #%d", event.ID),
			err,
		)
	}
	return nil
}

// Delete removes an existing event from the repository
func (s *eventService) Delete(ctx context.Context, id uint) error {
	err := s.repo.Delete(id)
	if err == repos.ErrEntityNotExisting {
		return MakeError(
			http.StatusNotFound,
			ErrCodeEventNotFound,
			fmt.Sprintf("Event #%d does not exist", id),
		)
	}
	if err != nil {
		return MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			fmt.Sprintf("Error while deleting event #%d", id),
			err,
		)
	}
	return nil
}
