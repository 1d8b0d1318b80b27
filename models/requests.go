// models/requests.go
package models

// CreateUserRequest request model
type CreateUserRequest struct {
	Username  string `json:"userId" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Mobile    string `json:"mobile"`
	Currency  string `json:"currency" binding:"required"`
}

// TransactionInput is a transaction as supplied by a client when creating
// a group or adding an event.
type TransactionInput struct {
	OwedBy string  `json:"owedBy" binding:"required"`
	OwedTo string  `json:"owedTo" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason"`
}

// EventInput is an event as supplied by a client.
type EventInput struct {
	EventName    string             `json:"eventName" binding:"required"`
	Description  string             `json:"description"`
	Transactions []TransactionInput `json:"transactions"`
}

// CreateGroupRequest request model
type CreateGroupRequest struct {
	Creator   string       `json:"creator" binding:"required"`
	GroupName string       `json:"groupName" binding:"required"`
	Members   []string     `json:"members"`
	Events    []EventInput `json:"events"`
}

// AddEventRequest request model
type AddEventRequest struct {
	GroupID   string     `json:"groupId" binding:"required"`
	CreatedBy string     `json:"createdBy" binding:"required"`
	Event     EventInput `json:"event" binding:"required"`
}

// UpdateMembersRequest request model
type UpdateMembersRequest struct {
	GroupID string   `json:"groupId" binding:"required"`
	Members []string `json:"members" binding:"required"`
}

// AttachReceiptRequest request model
type AttachReceiptRequest struct {
	GroupID       string `json:"groupId" binding:"required"`
	EventName     string `json:"eventName" binding:"required"`
	TransactionID string `json:"transactionId" binding:"required"`
	ReceiptRef    string `json:"receiptRef" binding:"required"`
}

// MarkPaidRequest request model
type MarkPaidRequest struct {
	GroupID       string `json:"groupId" binding:"required"`
	EventName     string `json:"eventName" binding:"required"`
	TransactionID string `json:"transactionId" binding:"required"`
}

// CreateGroupResponse response model
type CreateGroupResponse struct {
	GroupID string `json:"groupId"`
}

// CreateUserResponse response model
type CreateUserResponse struct {
	UserID string `json:"userId"`
}
