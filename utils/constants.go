package utils

const (
	// ID generation
	IDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
	IDLength  = 20

	// HTTP status messages
	ErrInvalidRequest     = "Invalid request"
	ErrGroupNotFound      = "Group not found"
	ErrUserNotFound       = "User not found"
	ErrTransactionMissing = "Transaction not found"
	ErrAlreadySettled     = "Transaction already settled"
	ErrFailedToStore      = "Failed to store data"
	ErrFailedToRetrieve   = "Failed to retrieve data"

	// Precision for monetary calculations
	MoneyPrecision = 100.0
)
