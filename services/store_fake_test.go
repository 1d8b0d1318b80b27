package services

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/repository"
	"github.com/fadhlanhapp/groupledger-backend/utils"
)

// fakeStore is an in-memory Store used to exercise the services. A
// single mutex serializes every operation, mirroring the atomicity the
// Postgres repository gets from database transactions: the MarkPaid
// precondition check and state flip happen under one lock acquisition.
type fakeStore struct {
	mu               sync.Mutex
	users            map[string]*models.User
	groups           map[string]*models.Group
	settlements      []models.SettlementRecord
	nextSettlementID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[string]*models.User),
		groups: make(map[string]*models.Group),
	}
}

func (f *fakeStore) CreateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.Username]; ok {
		return repository.ErrUserExists
	}
	u := *user
	f.users[user.Username] = &u
	return nil
}

func (f *fakeStore) GetUser(username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (f *fakeStore) CreateGroup(group *models.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.groups {
		if existing.Name == group.Name {
			return repository.ErrGroupNameTaken
		}
	}

	g := copyGroup(group)
	for i := range g.Events {
		for _, txn := range g.Events[i].Transactions {
			if _, ok := f.users[txn.OwedBy]; !ok {
				return repository.ErrUserNotFound
			}
		}
	}
	for i := range g.Events {
		for _, txn := range g.Events[i].Transactions {
			f.accrue(txn.OwedBy, txn.Amount)
		}
	}
	f.groups[g.ID] = g
	return nil
}

func (f *fakeStore) GetGroup(groupID string) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	group, ok := f.groups[groupID]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}
	return copyGroup(group), nil
}

func (f *fakeStore) ListGroupsForUser(username string) ([]*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var groups []*models.Group
	for _, group := range f.groups {
		for _, member := range group.Members {
			if member == username {
				groups = append(groups, copyGroup(group))
				break
			}
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].CreationTime > groups[j].CreationTime
	})
	return groups, nil
}

func (f *fakeStore) UpdateMembers(groupID string, members []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	group, ok := f.groups[groupID]
	if !ok {
		return repository.ErrGroupNotFound
	}
	group.Members = append([]string(nil), members...)
	return nil
}

func (f *fakeStore) AddEvent(groupID string, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	group, ok := f.groups[groupID]
	if !ok {
		return repository.ErrGroupNotFound
	}
	for _, existing := range group.Events {
		if existing.Name == event.Name {
			return repository.ErrEventNameTaken
		}
	}

	e := *event
	e.Transactions = append([]models.Transaction(nil), event.Transactions...)
	for _, txn := range e.Transactions {
		if _, ok := f.users[txn.OwedBy]; !ok {
			return repository.ErrUserNotFound
		}
	}
	for _, txn := range e.Transactions {
		f.accrue(txn.OwedBy, txn.Amount)
	}
	group.Events = append(group.Events, e)
	return nil
}

func (f *fakeStore) AttachReceipt(groupID, eventName, transactionID, receiptRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn := f.findTransaction(groupID, eventName, transactionID)
	if txn == nil || txn.IsPaid {
		return repository.ErrTransactionNotFound
	}
	txn.ReceiptRef = receiptRef
	return nil
}

func (f *fakeStore) MarkPaid(groupID, eventName, transactionID string) (*models.SettlementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn := f.findTransaction(groupID, eventName, transactionID)
	if txn == nil {
		return nil, repository.ErrTransactionNotFound
	}
	if txn.IsPaid {
		return nil, repository.ErrAlreadyPaid
	}

	txn.IsPaid = true
	if user, ok := f.users[txn.OwedBy]; ok {
		user.Debt = utils.Round(user.Debt - txn.Amount)
	}

	var currency string
	if user, ok := f.users[txn.OwedBy]; ok {
		currency = user.Currency
	}

	f.nextSettlementID++
	record := models.SettlementRecord{
		ID:            f.nextSettlementID,
		TransactionID: txn.ID,
		GroupID:       groupID,
		EventName:     eventName,
		OwedBy:        txn.OwedBy,
		OwedTo:        txn.OwedTo,
		Amount:        txn.Amount,
		Currency:      currency,
		Reason:        txn.Reason,
		SettledAt:     time.Now().UnixMilli(),
	}
	f.settlements = append(f.settlements, record)
	return &record, nil
}

func (f *fakeStore) GetSettlementHistory(username string) ([]models.SettlementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var records []models.SettlementRecord
	for _, record := range f.settlements {
		if record.OwedBy == username || record.OwedTo == username {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].SettledAt != records[j].SettledAt {
			return records[i].SettledAt > records[j].SettledAt
		}
		return records[i].ID > records[j].ID
	})
	return records, nil
}

func (f *fakeStore) accrue(username string, amount float64) error {
	user, ok := f.users[username]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Debt = utils.Round(user.Debt + amount)
	return nil
}

func (f *fakeStore) findTransaction(groupID, eventName, transactionID string) *models.Transaction {
	group, ok := f.groups[groupID]
	if !ok {
		return nil
	}
	for i := range group.Events {
		if group.Events[i].Name != eventName {
			continue
		}
		for j := range group.Events[i].Transactions {
			if group.Events[i].Transactions[j].ID == transactionID {
				return &group.Events[i].Transactions[j]
			}
		}
	}
	return nil
}

func copyGroup(group *models.Group) *models.Group {
	g := *group
	g.Members = append([]string(nil), group.Members...)
	g.Events = make([]models.Event, len(group.Events))
	for i, event := range group.Events {
		e := event
		e.Transactions = append([]models.Transaction(nil), event.Transactions...)
		g.Events[i] = e
	}
	return &g
}

// testEnv bundles the services wired to a shared fake store
type testEnv struct {
	store       *fakeStore
	groups      *GroupService
	settlements *SettlementService
	queries     *QueryService
	suggestions *SuggestionService
	exports     *ExportService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	queries := NewQueryService(store)
	return &testEnv{
		store:       store,
		groups:      NewGroupService(store),
		settlements: NewSettlementService(store),
		queries:     queries,
		suggestions: NewSuggestionService(store),
		exports:     NewExportService(queries),
	}
}

func (env *testEnv) seedUsers(t *testing.T, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		_, err := env.groups.CreateUser(&models.CreateUserRequest{
			Username:  username,
			FirstName: username,
			LastName:  "Test",
			Currency:  "USD",
		})
		require.NoError(t, err)
	}
}

func (env *testEnv) debtOf(t *testing.T, username string) float64 {
	t.Helper()
	user, err := env.queries.GetUserSummary(username)
	require.NoError(t, err)
	return user.Debt
}
