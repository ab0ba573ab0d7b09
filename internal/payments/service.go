package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
	"github.com/darkandwhite/shop-backend/pkg/enums"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Callback carries the validated parameters of a gateway check/perform call.
type Callback struct {
	TransactionID uuid.UUID
	ExternalID    string
	Amount        int64
}

// Service drives the transaction state machine from gateway callbacks.
//
// Check never mutates state. Perform executes its transition and the
// sibling-cancellation side effect as one atomic unit; two concurrent
// performs against the same order cannot both observe success.
type Service interface {
	Check(ctx context.Context, cb Callback) error
	Perform(ctx context.Context, cb Callback) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds the settlement service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

// Check is the gateway's pre-flight probe: it reports the same taxonomy as
// Perform without changing anything.
func (s *service) Check(ctx context.Context, cb Callback) error {
	transaction, err := s.repo.FindByID(ctx, cb.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}

	if transaction.Status == enums.TransactionStatusSuccess {
		return pkgerrors.New(pkgerrors.CodeAlreadyPaid, "transaction already paid")
	}
	if cb.Amount != transaction.Amount {
		return pkgerrors.New(pkgerrors.CodeInvalidAmount, "callback amount does not match transaction").
			WithDetails(map[string]any{"expected": transaction.Amount, "got": cb.Amount})
	}
	return nil
}

// Perform settles a transaction. Exactly one attempt per order can ever reach
// SUCCESS: the winning transition cancels all sibling WAITING attempts inside
// the same storage transaction, under a row lock on the target.
//
// An amount mismatch is a committed transition to FAILED, so that outcome is
// recorded outside the closure and reported only after the commit; returning
// it from inside would roll the FAILED write back.
func (s *service) Perform(ctx context.Context, cb Callback) error {
	var outcome error

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		transaction, err := repo.FindByIDForUpdate(ctx, cb.TransactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}

		switch transaction.Status {
		case enums.TransactionStatusSuccess:
			// Gateway retries replay perform; stay idempotent.
			outcome = pkgerrors.New(pkgerrors.CodeAlreadyPaid, "transaction already paid")
			return nil
		case enums.TransactionStatusCancelled:
			// A sibling already won; never resurrect a retired attempt.
			outcome = pkgerrors.New(pkgerrors.CodeAlreadyPaid, "order already paid")
			return nil
		case enums.TransactionStatusFailed:
			outcome = pkgerrors.New(pkgerrors.CodeStateConflict, "transaction already failed")
			return nil
		}

		if cb.Amount != transaction.Amount {
			if err := repo.MarkFailed(ctx, transaction.ID, cb.ExternalID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark transaction failed")
			}
			outcome = pkgerrors.New(pkgerrors.CodeInvalidAmount, "callback amount does not match transaction").
				WithDetails(map[string]any{"expected": transaction.Amount, "got": cb.Amount})
			return nil
		}

		if err := repo.MarkSuccess(ctx, transaction.ID, cb.ExternalID, s.now()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark transaction success")
		}
		if err := repo.CancelWaitingSiblings(ctx, transaction.OrderID, transaction.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel sibling transactions")
		}
		return nil
	})
	if err != nil {
		return err
	}
	return outcome
}
