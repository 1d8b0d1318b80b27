package services

import (
	"errors"
	"log/slog"

	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/repository"
	"github.com/fadhlanhapp/groupledger-backend/utils"
)

// SettlementService runs the two-phase settlement workflow: a client
// first attaches proof of payment, then marks the transaction paid. The
// intermediate state (receipt attached, still unpaid) is valid and
// recoverable; retrying MarkPaid alone always completes settlement.
type SettlementService struct {
	store Store
}

// NewSettlementService creates a new settlement service
func NewSettlementService(store Store) *SettlementService {
	return &SettlementService{store: store}
}

// AttachReceipt sets the receipt reference on an unpaid transaction.
// Re-attaching overwrites the previous reference. Paid and missing
// transactions are both reported as not found.
func (s *SettlementService) AttachReceipt(request *models.AttachReceiptRequest) error {
	if err := utils.ValidateRequired(request.ReceiptRef, "receiptRef"); err != nil {
		return err
	}

	err := s.store.AttachReceipt(request.GroupID, request.EventName,
		request.TransactionID, request.ReceiptRef)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return utils.NewNotFoundError("Transaction")
		}
		return utils.NewStorageError(err)
	}

	slog.Info("receipt attached", "group", request.GroupID,
		"event", request.EventName, "transaction", request.TransactionID)
	return nil
}

// MarkPaid settles an unpaid transaction: is_paid flips, the debtor's
// debt drops by the transaction amount and a settlement record is
// appended, all atomically. A transaction that is already paid yields a
// conflict so callers can tell a lost race from a key that never existed.
func (s *SettlementService) MarkPaid(request *models.MarkPaidRequest) (*models.SettlementRecord, error) {
	record, err := s.store.MarkPaid(request.GroupID, request.EventName, request.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyPaid):
			return nil, utils.NewConflictError(utils.ErrAlreadySettled)
		case errors.Is(err, repository.ErrTransactionNotFound):
			return nil, utils.NewNotFoundError("Transaction")
		default:
			return nil, utils.NewStorageError(err)
		}
	}

	slog.Info("transaction settled", "transaction", request.TransactionID,
		"owedBy", record.OwedBy, "owedTo", record.OwedTo, "amount", record.Amount)
	return record, nil
}
