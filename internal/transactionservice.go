package internal

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cwaldner/rostra/internal/models"
	"github.com/cwaldner/rostra/internal/repos"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// TransactionService provides service functions for the bookings inside transaction logs
type TransactionService interface {
	ListByLog(ctx context.Context, req *TransactionListRequest) ([]models.Transaction, uint, error)
	Get(ctx context.Context, id uint) (*models.Transaction, error)
	Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, id uint) error
}

// -- TransactionService implementation --------------------------------------------------------------------------------

type transactionService struct {
	repo   repos.TransactionRepo
	logger *logrus.Entry
}

// NewTransactionService creates a new transaction service instance
func NewTransactionService(repo repos.TransactionRepo, logger *logrus.Entry) TransactionService {
	return &transactionService{
		repo:   repo,
		logger: logger,
	}
}

// ListByLog returns the bookings of one transaction log
func (s *transactionService) ListByLog(ctx context.Context, req *TransactionListRequest) ([]models.Transaction, uint, error) {
	list, numRows, err := s.repo.FindByLog(req.LogID, req.Offset, req.Limit)
	if err != nil {
		return nil, 0, MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			fmt.Sprintf("Error while listing transactions for log #%d", req.LogID),
			err,
		)
	}
	return list, numRows, nil
}

// Get returns the transaction with the given ID
func (s *transactionService) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, MakeError(http.StatusNotFound, ErrCodeTransactionNotFound,
				fmt.Sprintf("Transaction #%d does not exist", id),
			)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving transaction #%d", id), err,
		)
	}
	return t, nil
}

// checkTransaction validates the fields every stored booking needs
func checkTransaction(t *models.Transaction) error {
	if t.LogID == 0 {
		return MakeErrorWithData(
			http.StatusBadRequest,
			ErrCodeRequiredFieldMissing,
			"Transaction needs a transaction log",
			map[string]string{
				"field": "logId",
			},
		)
	}
	if t.Kind == "" {
		t.Kind = models.TransactionKindPayment
	}
	if !models.ValidTransactionKind(t.Kind) {
		return MakeErrorWithData(
			http.StatusBadRequest,
			ErrCodeIllegalValue,
			fmt.Sprintf("'%s' is not a valid transaction kind", t.Kind),
			map[string]string{
				"field": "kind",
			},
		)
	}
	if t.OccurredAt.IsZero() {
		t.OccurredAt = time.Now()
	}
	return nil
}

// Create creates a new booking
func (s *transactionService) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if err := checkTransaction(t); err != nil {
		return nil, err
	}
	if err := s.repo.Create(t); err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while creating transaction", err,
		)
	}
	return t, nil
}

// Update updates an existing booking
func (s *transactionService) Update(ctx context.Context, t *models.Transaction) error {
	original, err := s.Get(ctx, t.ID)
	if err != nil {
		return err
	}
	if err := checkTransaction(t); err != nil {
		return err
	}
	original.LogID = t.LogID
	original.PersonID = t.PersonID
	original.AmountCents = t.AmountCents
	original.Kind = t.Kind
	original.OccurredAt = t.OccurredAt
	original.Note = t.Note
	if err := s.repo.Update(original); err != nil {
		if err == repos.ErrEntityNotExisting {
			return MakeError(http.StatusNotFound, ErrCodeTransactionNotFound,
				fmt.Sprintf("Transaction #%d does not exist", t.ID),
			)
		}
		return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while updating transaction #%d", t.ID), err,
		)
	}
	return nil
}

// Delete removes an existing booking
func (s *transactionService) Delete(ctx context.Context, id uint) error {
	err := s.repo.Delete(id)
	if err == repos.ErrEntityNotExisting {
		return MakeError(http.StatusNotFound, ErrCodeTransactionNotFound,
			fmt.Sprintf("Transaction #%d does not exist", id),
		)
	}
	if err != nil {
		return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while deleting transaction #%d", id), err,
		)
	}
	return nil
}
