package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/repository"
	"github.com/fadhlanhapp/groupledger-backend/utils"
)

// GroupService handles user registration and group/event management
type GroupService struct {
	store Store
}

// NewGroupService creates a new group service
func NewGroupService(store Store) *GroupService {
	return &GroupService{store: store}
}

// CreateUser registers a new ledger user with a zero debt balance
func (s *GroupService) CreateUser(request *models.CreateUserRequest) (*models.User, error) {
	username := utils.NormalizeUsername(request.Username)
	if err := utils.ValidateRequired(username, "userId"); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequired(request.Currency, "currency"); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		Mobile:       request.Mobile,
		Currency:     request.Currency,
		CreationTime: time.Now().UnixMilli(),
	}

	if err := s.store.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, utils.NewValidationError("Username already taken")
		}
		return nil, utils.NewStorageError(err)
	}

	slog.Info("user created", "user", username)
	return user, nil
}

// CreateGroup creates a group with deduplicated members (the creator is
// always included) and any initial events. Events and their transactions
// are created in the same logical operation as the group itself: if any
// transaction is invalid, no group is left behind.
func (s *GroupService) CreateGroup(request *models.CreateGroupRequest) (*models.Group, error) {
	creator := utils.NormalizeUsername(request.Creator)
	if err := utils.ValidateRequired(creator, "creator"); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequired(request.GroupName, "groupName"); err != nil {
		return nil, err
	}
	if err := utils.ValidateUsernames(request.Members); err != nil {
		return nil, err
	}

	members := utils.DedupeUsernames(append([]string{creator}, request.Members...))

	group := models.NewGroup(utils.GenerateID(), request.GroupName, creator, members)

	for _, eventInput := range request.Events {
		event, err := s.buildEvent(group.ID, creator, &eventInput)
		if err != nil {
			return nil, err
		}
		group.Events = append(group.Events, *event)
	}

	// Every referenced user must already exist; transaction parties need
	// not be members (membership edits never rewrite the ledger).
	if err := s.checkUsersExist(group); err != nil {
		return nil, err
	}

	if err := s.store.CreateGroup(group); err != nil {
		switch {
		case errors.Is(err, repository.ErrGroupNameTaken):
			return nil, utils.NewValidationError(
				fmt.Sprintf("The group name '%s' is already taken", request.GroupName))
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, utils.NewValidationError("Referenced user does not exist")
		default:
			return nil, utils.NewStorageError(err)
		}
	}

	slog.Info("group created", "group", group.ID, "name", group.Name, "events", len(group.Events))
	return group, nil
}

// AddEvent appends an event to an existing group and applies the debt
// accrual for each of its transactions
func (s *GroupService) AddEvent(request *models.AddEventRequest) (*models.Event, error) {
	createdBy := utils.NormalizeUsername(request.CreatedBy)
	if err := utils.ValidateRequired(createdBy, "createdBy"); err != nil {
		return nil, err
	}

	event, err := s.buildEvent(request.GroupID, createdBy, &request.Event)
	if err != nil {
		return nil, err
	}

	for _, txn := range event.Transactions {
		if err := s.checkUserExists(txn.OwedBy); err != nil {
			return nil, err
		}
		if err := s.checkUserExists(txn.OwedTo); err != nil {
			return nil, err
		}
	}

	if err := s.store.AddEvent(request.GroupID, event); err != nil {
		switch {
		case errors.Is(err, repository.ErrGroupNotFound):
			return nil, utils.NewNotFoundError("Group")
		case errors.Is(err, repository.ErrEventNameTaken):
			return nil, utils.NewValidationError("Event name must be unique in this group")
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, utils.NewValidationError("Referenced user does not exist")
		default:
			return nil, utils.NewStorageError(err)
		}
	}

	slog.Info("event added", "group", request.GroupID, "event", event.Name,
		"transactions", len(event.Transactions))
	return event, nil
}

// UpdateMembers replaces the membership set verbatim. Removing a member
// does not invalidate or rewrite their past transactions.
func (s *GroupService) UpdateMembers(request *models.UpdateMembersRequest) error {
	members := utils.DedupeUsernames(request.Members)
	if err := utils.ValidateNotEmpty(members, "members"); err != nil {
		return err
	}
	for _, member := range members {
		if err := s.checkUserExists(member); err != nil {
			return err
		}
	}

	if err := s.store.UpdateMembers(request.GroupID, members); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return utils.NewNotFoundError("Group")
		}
		return utils.NewStorageError(err)
	}

	slog.Info("group members updated", "group", request.GroupID, "members", len(members))
	return nil
}

// buildEvent validates an event input and assembles the event model with
// generated transaction IDs
func (s *GroupService) buildEvent(groupID, createdBy string, input *models.EventInput) (*models.Event, error) {
	if err := utils.ValidateRequired(input.EventName, "eventName"); err != nil {
		return nil, err
	}

	event := &models.Event{
		GroupID:      groupID,
		Name:         input.EventName,
		Description:  input.Description,
		CreatedBy:    createdBy,
		Transactions: []models.Transaction{},
		CreationTime: time.Now().UnixMilli(),
	}

	for _, txnInput := range input.Transactions {
		txn, err := s.buildTransaction(groupID, event.Name, createdBy, &txnInput)
		if err != nil {
			return nil, err
		}
		event.Transactions = append(event.Transactions, *txn)
	}

	return event, nil
}

// buildTransaction validates a transaction input and assembles the model
func (s *GroupService) buildTransaction(groupID, eventName, createdBy string, input *models.TransactionInput) (*models.Transaction, error) {
	owedBy := utils.NormalizeUsername(input.OwedBy)
	owedTo := utils.NormalizeUsername(input.OwedTo)

	if err := utils.ValidateRequired(owedBy, "owedBy"); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequired(owedTo, "owedTo"); err != nil {
		return nil, err
	}
	if owedBy == owedTo {
		return nil, utils.NewValidationError("Users cannot owe money to themselves")
	}
	if err := utils.ValidatePositive(input.Amount, "amount"); err != nil {
		return nil, err
	}

	amount := utils.Round(input.Amount)
	if amount <= 0 {
		return nil, utils.NewValidationError("amount must be positive")
	}

	return models.NewTransaction(utils.GenerateID(), groupID, eventName,
		createdBy, owedBy, owedTo, amount, input.Reason), nil
}

// checkUsersExist verifies every user a new group references
func (s *GroupService) checkUsersExist(group *models.Group) error {
	seen := make(map[string]bool)
	check := func(username string) error {
		if seen[username] {
			return nil
		}
		seen[username] = true
		return s.checkUserExists(username)
	}

	for _, member := range group.Members {
		if err := check(member); err != nil {
			return err
		}
	}
	for _, event := range group.Events {
		for _, txn := range event.Transactions {
			if err := check(txn.OwedBy); err != nil {
				return err
			}
			if err := check(txn.OwedTo); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkUserExists maps a missing user to a validation error
func (s *GroupService) checkUserExists(username string) error {
	if _, err := s.store.GetUser(username); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return utils.NewValidationError(fmt.Sprintf("User '%s' does not exist", username))
		}
		return utils.NewStorageError(err)
	}
	return nil
}
