// repository/group_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fadhlanhapp/groupledger-backend/models"
)

// LedgerRepository handles database operations for the expense ledger:
// users, groups, events, transactions and settlement records.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateUser inserts a new user with a zero debt balance
func (r *LedgerRepository) CreateUser(user *models.User) error {
	_, err := r.db.Exec(
		`INSERT INTO users (username, first_name, last_name, mobile, currency, debt, creation_time)
		 VALUES ($1, $2, $3, $4, $5, 0, $6)`,
		user.Username, user.FirstName, user.LastName, user.Mobile, user.Currency, user.CreationTime,
	)
	if isUniqueViolation(err) {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by username
func (r *LedgerRepository) GetUser(username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		`SELECT username, first_name, last_name, mobile, currency, debt, creation_time
		 FROM users WHERE username = $1`,
		username,
	).Scan(&user.Username, &user.FirstName, &user.LastName, &user.Mobile,
		&user.Currency, &user.Debt, &user.CreationTime)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// CreateGroup saves a group with its members, events and transactions as
// one database transaction. For every ledger transaction inserted, the
// debtor's debt is incremented in the same unit of work, so a failure
// anywhere leaves neither a partial group nor a stale balance.
func (r *LedgerRepository) CreateGroup(group *models.Group) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO groups (id, name, created_by, creation_time) VALUES ($1, $2, $3, $4)",
		group.ID, group.Name, group.CreatedBy, group.CreationTime,
	)
	if isUniqueViolation(err) {
		return ErrGroupNameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, member := range group.Members {
		if _, err := tx.Exec(
			"INSERT INTO group_members (group_id, username) VALUES ($1, $2)",
			group.ID, member,
		); err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	for _, event := range group.Events {
		if err := insertEvent(tx, &event); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AddEvent appends an event with its transactions to an existing group,
// applying the debt accrual for each transaction in the same database
// transaction.
func (r *LedgerRepository) AddEvent(groupID string, event *models.Event) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)", groupID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return ErrGroupNotFound
	}

	if err := insertEvent(tx, event); err != nil {
		return err
	}

	return tx.Commit()
}

// insertEvent inserts an event plus its transactions and debt accruals
// within the caller's database transaction.
func insertEvent(tx *sql.Tx, event *models.Event) error {
	_, err := tx.Exec(
		`INSERT INTO events (group_id, event_name, description, created_by, creation_time)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.GroupID, event.Name, event.Description, event.CreatedBy, event.CreationTime,
	)
	if isUniqueViolation(err) {
		return ErrEventNameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	for _, txn := range event.Transactions {
		if _, err := tx.Exec(
			`INSERT INTO transactions
			 (id, group_id, event_name, created_by, owed_by, owed_to, amount, reason, is_paid, creation_time)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9)`,
			txn.ID, txn.GroupID, txn.EventName, txn.CreatedBy, txn.OwedBy, txn.OwedTo,
			txn.Amount, txn.Reason, txn.CreationTime,
		); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		// Accrual: the debtor's balance grows the instant the
		// transaction is recorded, and only then.
		res, err := tx.Exec(
			"UPDATE users SET debt = debt + $1 WHERE username = $2",
			txn.Amount, txn.OwedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to apply debt accrual: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrUserNotFound
		}
	}

	return nil
}

// UpdateMembers replaces a group's membership set verbatim. Historical
// transactions referencing removed members are left untouched, as are
// their debt balances.
func (r *LedgerRepository) UpdateMembers(groupID string, members []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)", groupID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return ErrGroupNotFound
	}

	if _, err := tx.Exec("DELETE FROM group_members WHERE group_id = $1", groupID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}

	for _, member := range members {
		if _, err := tx.Exec(
			"INSERT INTO group_members (group_id, username) VALUES ($1, $2)",
			groupID, member,
		); err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	return tx.Commit()
}

// GetGroup retrieves a group with its members and nested events/transactions
func (r *LedgerRepository) GetGroup(groupID string) (*models.Group, error) {
	var group models.Group
	err := r.db.QueryRow(
		"SELECT id, name, created_by, creation_time FROM groups WHERE id = $1",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreationTime)

	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := r.loadGroupDetails(&group); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroupsForUser retrieves all groups the user is a member of, newest
// first, each with nested events and transactions
func (r *LedgerRepository) ListGroupsForUser(username string) ([]*models.Group, error) {
	rows, err := r.db.Query(
		`SELECT g.id, g.name, g.created_by, g.creation_time
		 FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.username = $1
		 ORDER BY g.creation_time DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreationTime); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if err := r.loadGroupDetails(group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// loadGroupDetails fills in a group's members and events
func (r *LedgerRepository) loadGroupDetails(group *models.Group) error {
	mRows, err := r.db.Query(
		"SELECT username FROM group_members WHERE group_id = $1 ORDER BY username",
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer mRows.Close()

	for mRows.Next() {
		var member string
		if err := mRows.Scan(&member); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		group.Members = append(group.Members, member)
	}

	eRows, err := r.db.Query(
		`SELECT group_id, event_name, description, created_by, creation_time
		 FROM events WHERE group_id = $1 ORDER BY creation_time ASC`,
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}
	defer eRows.Close()

	var events []models.Event
	for eRows.Next() {
		var event models.Event
		if err := eRows.Scan(&event.GroupID, &event.Name, &event.Description,
			&event.CreatedBy, &event.CreationTime); err != nil {
			return fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := eRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate events: %w", err)
	}

	for i := range events {
		txns, err := r.getTransactionsForEvent(group.ID, events[i].Name)
		if err != nil {
			return err
		}
		events[i].Transactions = txns
	}

	group.Events = events
	return nil
}

// getTransactionsForEvent retrieves all transactions of one event,
// newest first
func (r *LedgerRepository) getTransactionsForEvent(groupID, eventName string) ([]models.Transaction, error) {
	rows, err := r.db.Query(
		`SELECT id, group_id, event_name, created_by, owed_by, owed_to, amount, reason,
		        is_paid, receipt_ref, creation_time
		 FROM transactions
		 WHERE group_id = $1 AND event_name = $2
		 ORDER BY creation_time DESC`,
		groupID, eventName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		var receiptRef sql.NullString

		if err := rows.Scan(&txn.ID, &txn.GroupID, &txn.EventName, &txn.CreatedBy,
			&txn.OwedBy, &txn.OwedTo, &txn.Amount, &txn.Reason,
			&txn.IsPaid, &receiptRef, &txn.CreationTime); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if receiptRef.Valid {
			txn.ReceiptRef = receiptRef.String
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
