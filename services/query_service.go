package services

import (
	"errors"

	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/repository"
	"github.com/fadhlanhapp/groupledger-backend/utils"
)

// QueryService serves the read-side projections: user summaries,
// settlement history and group views. It never writes.
type QueryService struct {
	store Store
}

// NewQueryService creates a new query service
func NewQueryService(store Store) *QueryService {
	return &QueryService{store: store}
}

// GetUserSummary returns the user's profile and current debt balance.
// The balance is the stored scalar, not recomputed from transactions;
// the accrual and settlement paths keep it consistent.
func (s *QueryService) GetUserSummary(username string) (*models.User, error) {
	user, err := s.store.GetUser(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, utils.NewNotFoundError("User")
		}
		return nil, utils.NewStorageError(err)
	}
	return user, nil
}

// GetSettlementHistory returns all settlement records involving the user
// as debtor or creditor, newest first
func (s *QueryService) GetSettlementHistory(username string) ([]models.SettlementRecord, error) {
	records, err := s.store.GetSettlementHistory(username)
	if err != nil {
		return nil, utils.NewStorageError(err)
	}
	if records == nil {
		records = []models.SettlementRecord{}
	}
	return records, nil
}

// ListGroupsForUser returns the groups the user belongs to with nested
// events and transactions
func (s *QueryService) ListGroupsForUser(username string) ([]*models.Group, error) {
	groups, err := s.store.ListGroupsForUser(username)
	if err != nil {
		return nil, utils.NewStorageError(err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return groups, nil
}

// GetGroupView returns a group with resolved members and transactions
// annotated with whether the viewer may settle them: only unpaid
// transactions naming the viewer as debtor or creditor are settleable.
func (s *QueryService) GetGroupView(groupID, viewer string) (*models.GroupView, error) {
	group, err := s.store.GetGroup(groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, utils.NewNotFoundError("Group")
		}
		return nil, utils.NewStorageError(err)
	}

	view := &models.GroupView{
		ID:           group.ID,
		Name:         group.Name,
		CreatedBy:    group.CreatedBy,
		Members:      []models.User{},
		Events:       []models.EventView{},
		CreationTime: group.CreationTime,
	}

	for _, member := range group.Members {
		user, err := s.store.GetUser(member)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}
			return nil, utils.NewStorageError(err)
		}
		view.Members = append(view.Members, *user)
	}

	for _, event := range group.Events {
		eventView := models.EventView{
			GroupID:      event.GroupID,
			Name:         event.Name,
			Description:  event.Description,
			CreatedBy:    event.CreatedBy,
			Transactions: []models.TransactionView{},
			CreationTime: event.CreationTime,
		}
		for _, txn := range event.Transactions {
			eventView.Transactions = append(eventView.Transactions, models.TransactionView{
				Transaction: txn,
				CanSettle:   !txn.IsPaid && (viewer == txn.OwedBy || viewer == txn.OwedTo),
			})
		}
		view.Events = append(view.Events, eventView)
	}

	return view, nil
}
