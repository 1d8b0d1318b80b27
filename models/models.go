// models/models.go
package models

import "time"

// User represents a registered ledger participant. Debt is a cached
// aggregate: the sum of amounts over unpaid transactions where the user
// is the debtor. It is adjusted only by the repository, inside the same
// database transaction that records or settles a transaction.
type User struct {
	Username     string  `json:"userId"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Mobile       string  `json:"mobile,omitempty"`
	Currency     string  `json:"currency"`
	Debt         float64 `json:"debt"`
	CreationTime int64   `json:"_creationTime"`
}

// Group is a set of users sharing expenses, with an ordered collection
// of events. Deleting a group cascades to its events and transactions.
type Group struct {
	ID           string   `json:"groupId"`
	Name         string   `json:"groupName"`
	CreatedBy    string   `json:"createdBy"`
	Members      []string `json:"members"`
	Events       []Event  `json:"events"`
	CreationTime int64    `json:"_creationTime"`
}

// Event belongs to exactly one group; its name is unique within that group.
type Event struct {
	GroupID      string        `json:"groupId"`
	Name         string        `json:"eventName"`
	Description  string        `json:"description,omitempty"`
	CreatedBy    string        `json:"createdBy"`
	Transactions []Transaction `json:"transactions"`
	CreationTime int64         `json:"_creationTime"`
}

// Transaction is the atomic unit of debt. IsPaid moves false -> true once
// and never back. ReceiptRef is an opaque pointer to externally stored
// proof of payment, set only while the transaction is unpaid.
type Transaction struct {
	ID           string  `json:"transactionId"`
	GroupID      string  `json:"groupId"`
	EventName    string  `json:"eventName"`
	CreatedBy    string  `json:"createdBy"`
	OwedBy       string  `json:"owedBy"`
	OwedTo       string  `json:"owedTo"`
	Amount       float64 `json:"amount"`
	Reason       string  `json:"reason,omitempty"`
	IsPaid       bool    `json:"isPaid"`
	ReceiptRef   string  `json:"receiptRef,omitempty"`
	CreationTime int64   `json:"_creationTime"`
}

// SettlementRecord is the append-only audit entry written the instant a
// transaction is marked paid. Amount, parties, reason and currency are
// snapshots taken at settlement time, never recomputed later.
type SettlementRecord struct {
	ID            int64   `json:"settlementId"`
	TransactionID string  `json:"transactionId"`
	GroupID       string  `json:"groupId"`
	EventName     string  `json:"eventName"`
	OwedBy        string  `json:"owedBy"`
	OwedTo        string  `json:"owedTo"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Reason        string  `json:"reason,omitempty"`
	SettledAt     int64   `json:"settledAt"`
}

// SettledTime returns the settlement timestamp as a time.Time.
func (r *SettlementRecord) SettledTime() time.Time {
	return time.UnixMilli(r.SettledAt)
}

// GroupView is the read-side projection of a group for a requesting user:
// resolved members plus events whose transactions are annotated with
// whether that user may settle them.
type GroupView struct {
	ID           string      `json:"groupId"`
	Name         string      `json:"groupName"`
	CreatedBy    string      `json:"createdBy"`
	Members      []User      `json:"members"`
	Events       []EventView `json:"events"`
	CreationTime int64       `json:"_creationTime"`
}

// EventView mirrors Event with annotated transactions.
type EventView struct {
	GroupID      string            `json:"groupId"`
	Name         string            `json:"eventName"`
	Description  string            `json:"description,omitempty"`
	CreatedBy    string            `json:"createdBy"`
	Transactions []TransactionView `json:"transactions"`
	CreationTime int64             `json:"_creationTime"`
}

// TransactionView adds the per-viewer settle permission to a transaction.
type TransactionView struct {
	Transaction
	CanSettle bool `json:"canSettle"`
}

// MemberBalance is a group member's net position over unpaid transactions.
// Positive means the member is owed money overall.
type MemberBalance struct {
	Username string  `json:"userId"`
	Balance  float64 `json:"balance"`
}

// SuggestedTransfer is one payment in a minimal settle-up plan.
type SuggestedTransfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// SettlementSuggestion is the result of netting a group's unpaid ledger.
type SettlementSuggestion struct {
	GroupID   string              `json:"groupId"`
	Balances  []MemberBalance     `json:"balances"`
	Transfers []SuggestedTransfer `json:"transfers"`
}

// NewGroup creates a new Group instance.
func NewGroup(id, name, createdBy string, members []string) *Group {
	return &Group{
		ID:           id,
		Name:         name,
		CreatedBy:    createdBy,
		Members:      members,
		Events:       []Event{},
		CreationTime: time.Now().UnixMilli(),
	}
}

// NewTransaction creates a new unpaid Transaction instance.
func NewTransaction(id, groupID, eventName, createdBy, owedBy, owedTo string, amount float64, reason string) *Transaction {
	return &Transaction{
		ID:           id,
		GroupID:      groupID,
		EventName:    eventName,
		CreatedBy:    createdBy,
		OwedBy:       owedBy,
		OwedTo:       owedTo,
		Amount:       amount,
		Reason:       reason,
		CreationTime: time.Now().UnixMilli(),
	}
}
