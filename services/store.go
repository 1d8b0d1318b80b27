package services

import (
	"github.com/fadhlanhapp/groupledger-backend/models"
)

// Store defines the ledger storage contract consumed by the services.
// This abstraction allows swapping storage backends without changing the
// service layer, and lets the settlement engine be tested against an
// in-memory implementation.
//
// Implementations must guarantee:
//   - CreateGroup and AddEvent apply the debt accrual for every inserted
//     transaction in the same atomic unit as the insert (all-or-nothing).
//   - MarkPaid flips is_paid, decrements the debtor's debt and appends a
//     settlement record as one atomic unit; the precondition check and
//     the flip are indivisible, so concurrent calls on the same
//     transaction yield exactly one success.
//   - AttachReceipt only matches unpaid transactions and reports paid
//     and missing transactions identically as ErrTransactionNotFound.
type Store interface {
	// CreateUser persists a new user with a zero debt balance.
	CreateUser(user *models.User) error

	// GetUser retrieves a user by username.
	GetUser(username string) (*models.User, error)

	// CreateGroup persists a group with its members and any initial
	// events/transactions, all-or-nothing.
	CreateGroup(group *models.Group) error

	// GetGroup retrieves a group with nested events and transactions.
	GetGroup(groupID string) (*models.Group, error)

	// ListGroupsForUser retrieves the groups a user belongs to.
	ListGroupsForUser(username string) ([]*models.Group, error)

	// UpdateMembers replaces a group's membership set verbatim.
	UpdateMembers(groupID string, members []string) error

	// AddEvent appends an event and its transactions to a group.
	AddEvent(groupID string, event *models.Event) error

	// AttachReceipt sets the receipt reference on an unpaid transaction.
	AttachReceipt(groupID, eventName, transactionID, receiptRef string) error

	// MarkPaid settles an unpaid transaction and returns the appended
	// settlement record.
	MarkPaid(groupID, eventName, transactionID string) (*models.SettlementRecord, error)

	// GetSettlementHistory retrieves a user's settlement records,
	// newest first.
	GetSettlementHistory(username string) ([]models.SettlementRecord, error)
}
