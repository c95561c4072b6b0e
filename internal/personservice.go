package internal

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cwaldner/rostra/internal/models"
	"github.com/cwaldner/rostra/internal/repos"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PersonService provides service functions for working with people and prospects
type PersonService interface {
	List(ctx context.Context, search *Search) ([]models.Person, uint, error)
	Get(ctx context.Context, id uint) (*models.Person, error)
	Create(ctx context.Context, p *models.Person) (*models.Person, error)
	Update(ctx context.Context, p *models.Person) error
	Delete(ctx context.Context, id uint) error
}

// -- PersonService implementation -------------------------------------------------------------------------------------

type personService struct {
	repo     repos.PersonRepo
	logger   *logrus.Entry
	collator *collate.Collator
}

// NewPersonService creates a new person service instance
func NewPersonService(repo repos.PersonRepo, logger *logrus.Entry) PersonService {
	return &personService{
		repo:   repo,
		logger: logger,
		// The console sorts names the way a phone book does, not by raw bytes
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// List searches for people matching the given search term
func (s *personService) List(ctx context.Context, search *Search) ([]models.Person, uint, error) {
	people, numRows, err := s.repo.Find(search.Search, search.Offset, search.Limit)
	if err != nil {
		return nil, 0, MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			"Error while searching people",
			err,
		)
	}
	s.collator.Sort(personSorter(people))
	return people, numRows, nil
}

// personSorter sorts people by display name using a collator
type personSorter []models.Person

func (p personSorter) Len() int           { return len(p) }
func (p personSorter) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p personSorter) Bytes(i int) []byte { return []byte(p[i].LastName + " " + p[i].FirstName) }

// Get returns the person with the given ID
func (s *personService) Get(ctx context.Context, id uint) (*models.Person, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, MakeError(http.StatusNotFound, ErrCodePersonNotFound,
				fmt.Sprintf("Person #%d does not exist", id),
			)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving person #%d", id), err,
		)
	}
	return p, nil
}

// checkPerson validates the fields that every stored person needs
func checkPerson(p *models.Person) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.LastName == "" {
		return MakeErrorWithData(
			http.StatusBadRequest,
			ErrCodeRequiredFieldMissing,
			"Person needs at least a last name",
			map[string]string{
				"field": "lastName",
			},
		)
	}
	if p.Kind == "" {
		p.Kind = models.PersonKindProspect
	}
	if !models.ValidPersonKind(p.Kind) {
		return MakeErrorWithData(
			http.StatusBadRequest,
			ErrCodeIllegalValue,
			fmt.Sprintf("'%s' is not a valid person kind", p.Kind),
			map[string]string{
				"field": "kind",
			},
		)
	}
	return nil
}

// Create creates a new person entry
func (s *personService) Create(ctx context.Context, p *models.Person) (*models.Person, error) {
	if err := checkPerson(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(p); err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while creating person", err,
		)
	}
	return p, nil
}

// Update updates an existing person entry
func (s *personService) Update(ctx context.Context, p *models.Person) error {
	original, err := s.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := checkPerson(p); err != nil {
		return err
	}
	original.FirstName = p.FirstName
	original.LastName = p.LastName
	original.Email = p.Email
	original.Phone = p.Phone
	original.Kind = p.Kind
	original.Notes = p.Notes
	if err := s.repo.Update(original); err != nil {
		if err == repos.ErrEntityNotExisting {
			return MakeError(http.StatusNotFound, ErrCodePersonNotFound,
				fmt.Sprintf("Person #%d does not exist", p.ID),
			)
		}
		return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while updating person #%d", p.ID), err,
		)
	}
	return nil
}

// Delete removes an existing person entry
func (s *personService) Delete(ctx context.Context, id uint) error {
	err := s.repo.Delete(id)
	if err == repos.ErrEntityNotExisting {
		return MakeError(http.StatusNotFound, ErrCodePersonNotFound,
			fmt.Sprintf("Person #%d does not exist", id),
		)
	}
	if err != nil {
		return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while deleting person #%d", id), err,
		)
	}
	return nil
}
