// repository/ledger_repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fadhlanhapp/groupledger-backend/models"
)

// AttachReceipt sets the receipt reference on a matching unpaid
// transaction, overwriting any previous reference. An already-paid
// transaction and a nonexistent one are both reported as not found;
// callers are not told which.
func (r *LedgerRepository) AttachReceipt(groupID, eventName, transactionID, receiptRef string) error {
	res, err := r.db.Exec(
		`UPDATE transactions SET receipt_ref = $1
		 WHERE id = $2 AND group_id = $3 AND event_name = $4 AND is_paid = FALSE`,
		receiptRef, transactionID, groupID, eventName,
	)
	if err != nil {
		return fmt.Errorf("failed to attach receipt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// MarkPaid performs the sole UNPAID -> PAID transition as one database
// transaction: a conditional update flips is_paid (the row stays locked
// until commit), the debtor's debt is decremented, and a settlement
// record snapshotting amount, parties, reason and the debtor's currency
// is appended. Concurrent calls on the same transaction resolve so that
// exactly one succeeds; the losers get ErrAlreadyPaid.
func (r *LedgerRepository) MarkPaid(groupID, eventName, transactionID string) (*models.SettlementRecord, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE transactions SET is_paid = TRUE
		 WHERE id = $1 AND group_id = $2 AND event_name = $3 AND is_paid = FALSE`,
		transactionID, groupID, eventName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark transaction paid: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM transactions
			 WHERE id = $1 AND group_id = $2 AND event_name = $3)`,
			transactionID, groupID, eventName,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check transaction: %w", err)
		}
		if exists {
			return nil, ErrAlreadyPaid
		}
		return nil, ErrTransactionNotFound
	}

	record := models.SettlementRecord{
		TransactionID: transactionID,
		GroupID:       groupID,
		EventName:     eventName,
		SettledAt:     time.Now().UnixMilli(),
	}
	if err := tx.QueryRow(
		"SELECT owed_by, owed_to, amount, reason FROM transactions WHERE id = $1",
		transactionID,
	).Scan(&record.OwedBy, &record.OwedTo, &record.Amount, &record.Reason); err != nil {
		return nil, fmt.Errorf("failed to read settled transaction: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE users SET debt = debt - $1 WHERE username = $2",
		record.Amount, record.OwedBy,
	); err != nil {
		return nil, fmt.Errorf("failed to apply debt decrement: %w", err)
	}

	// Snapshot of the debtor's currency at settlement time.
	if err := tx.QueryRow(
		"SELECT currency FROM users WHERE username = $1", record.OwedBy,
	).Scan(&record.Currency); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read currency: %w", err)
	}

	if err := tx.QueryRow(
		`INSERT INTO settlements
		 (transaction_id, group_id, event_name, owed_by, owed_to, amount, currency, reason, settled_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		record.TransactionID, record.GroupID, record.EventName, record.OwedBy, record.OwedTo,
		record.Amount, record.Currency, record.Reason, record.SettledAt,
	).Scan(&record.ID); err != nil {
		return nil, fmt.Errorf("failed to insert settlement record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return &record, nil
}

// GetSettlementHistory retrieves all settlement records involving the
// user as debtor or creditor, newest first
func (r *LedgerRepository) GetSettlementHistory(username string) ([]models.SettlementRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, transaction_id, group_id, event_name, owed_by, owed_to, amount, currency, reason, settled_at
		 FROM settlements
		 WHERE owed_by = $1 OR owed_to = $1
		 ORDER BY settled_at DESC, id DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement history: %w", err)
	}
	defer rows.Close()

	var records []models.SettlementRecord
	for rows.Next() {
		var record models.SettlementRecord
		if err := rows.Scan(&record.ID, &record.TransactionID, &record.GroupID, &record.EventName,
			&record.OwedBy, &record.OwedTo, &record.Amount, &record.Currency,
			&record.Reason, &record.SettledAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
