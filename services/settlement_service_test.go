package services

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/utils"
)

// createSingleTransaction seeds amy and bob, creates a group with one
// transaction (bob owes amy the given amount) and returns the group ID,
// event name and transaction ID.
func createSingleTransaction(t *testing.T, env *testEnv, amount float64) (string, string, string) {
	t.Helper()
	env.seedUsers(t, "amy", "bob")

	group, err := env.groups.CreateGroup(&models.CreateGroupRequest{
		Creator:   "amy",
		GroupName: "Trip",
		Members:   []string{"bob"},
		Events: []models.EventInput{{
			EventName:    "Dinner",
			Transactions: []models.TransactionInput{{OwedBy: "bob", OwedTo: "amy", Amount: amount, Reason: "dinner"}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, group.Events, 1)
	require.Len(t, group.Events[0].Transactions, 1)
	return group.ID, group.Events[0].Name, group.Events[0].Transactions[0].ID
}

func TestSettlementService_MarkPaid_FullScenario(t *testing.T) {
	env := newTestEnv()
	groupID, eventName, txnID := createSingleTransaction(t, env, 50.00)

	require.Equal(t, 50.00, env.debtOf(t, "bob"))

	record, err := env.settlements.MarkPaid(&models.MarkPaidRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: txnID,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.00, env.debtOf(t, "bob"))
	assert.Equal(t, 50.00, record.Amount)
	assert.Equal(t, "bob", record.OwedBy)
	assert.Equal(t, "amy", record.OwedTo)
	assert.Equal(t, "USD", record.Currency)
	assert.Equal(t, "dinner", record.Reason)
	assert.NotZero(t, record.SettledAt)

	// The paid flag, the decremented debt and the settlement record are
	// all observable together.
	view, err := env.queries.GetGroupView(groupID, "bob")
	require.NoError(t, err)
	assert.True(t, view.Events[0].Transactions[0].IsPaid)
	assert.False(t, view.Events[0].Transactions[0].CanSettle)

	history, err := env.queries.GetSettlementHistory("bob")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 50.00, history[0].Amount)

	// Second MarkPaid is a conflict, with debt changed exactly once.
	_, err = env.settlements.MarkPaid(&models.MarkPaidRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: txnID,
	})
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, 0.00, env.debtOf(t, "bob"))

	history, err = env.queries.GetSettlementHistory("bob")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSettlementService_MarkPaid_UnknownTransaction(t *testing.T) {
	env := newTestEnv()
	groupID, eventName, _ := createSingleTransaction(t, env, 10.00)

	_, err := env.settlements.MarkPaid(&models.MarkPaidRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: "missing",
	})
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestSettlementService_AttachReceipt_ThenMarkPaid(t *testing.T) {
	env := newTestEnv()
	groupID, eventName, txnID := createSingleTransaction(t, env, 25.00)

	err := env.settlements.AttachReceipt(&models.AttachReceiptRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: txnID,
		ReceiptRef:    "/uploads/r1.jpg",
	})
	require.NoError(t, err)

	// A receipt without settlement is a valid intermediate state: the
	// transaction stays unpaid and the debt stays accrued.
	view, err := env.queries.GetGroupView(groupID, "bob")
	require.NoError(t, err)
	txn := view.Events[0].Transactions[0]
	assert.False(t, txn.IsPaid)
	assert.Equal(t, "/uploads/r1.jpg", txn.ReceiptRef)
	assert.True(t, txn.CanSettle)
	assert.Equal(t, 25.00, env.debtOf(t, "bob"))

	// Re-attaching overwrites the previous reference.
	err = env.settlements.AttachReceipt(&models.AttachReceiptRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: txnID,
		ReceiptRef:    "/uploads/r2.jpg",
	})
	require.NoError(t, err)

	// Retrying MarkPaid alone completes settlement.
	_, err = env.settlements.MarkPaid(&models.MarkPaidRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: txnID,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.00, env.debtOf(t, "bob"))
}

func TestSettlementService_AttachReceipt_PaidAndMissingIndistinguishable(t *testing.T) {
	env := newTestEnv()
	groupID, eventName, txnID := createSingleTransaction(t, env, 25.00)

	_, err := env.settlements.MarkPaid(&models.MarkPaidRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: txnID,
	})
	require.NoError(t, err)

	attachErr := env.settlements.AttachReceipt(&models.AttachReceiptRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: txnID,
		ReceiptRef:    "/uploads/late.jpg",
	})
	missingErr := env.settlements.AttachReceipt(&models.AttachReceiptRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: "missing",
		ReceiptRef:    "/uploads/late.jpg",
	})

	for _, err := range []error{attachErr, missingErr} {
		require.Error(t, err)
		appErr, ok := err.(*utils.AppError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	}
}

func TestSettlementService_MarkPaid_ConcurrentSameTransaction(t *testing.T) {
	env := newTestEnv()
	groupID, eventName, txnID := createSingleTransaction(t, env, 50.00)

	const workers = 20
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.settlements.MarkPaid(&models.MarkPaidRequest{
				GroupID:       groupID,
				EventName:     eventName,
				TransactionID: txnID,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		appErr, ok := err.(*utils.AppError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, appErr.Code)
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 0.00, env.debtOf(t, "bob"))

	history, err := env.queries.GetSettlementHistory("bob")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSettlementService_MarkPaid_ConcurrentDistinctTransactions(t *testing.T) {
	env := newTestEnv()
	env.seedUsers(t, "amy", "bob")

	const count = 10
	events := make([]models.EventInput, count)
	for i := range events {
		events[i] = models.EventInput{
			EventName:    "Event " + string(rune('A'+i)),
			Transactions: []models.TransactionInput{{OwedBy: "bob", OwedTo: "amy", Amount: 10.00}},
		}
	}

	group, err := env.groups.CreateGroup(&models.CreateGroupRequest{
		Creator:   "amy",
		GroupName: "Trip",
		Members:   []string{"bob"},
		Events:    events,
	})
	require.NoError(t, err)
	require.Equal(t, 100.00, env.debtOf(t, "bob"))

	// Settle every transaction concurrently: the aggregate must reflect
	// each decrement exactly once.
	var wg sync.WaitGroup
	for _, event := range group.Events {
		for _, txn := range event.Transactions {
			wg.Add(1)
			go func(eventName, txnID string) {
				defer wg.Done()
				_, err := env.settlements.MarkPaid(&models.MarkPaidRequest{
					GroupID:       group.ID,
					EventName:     eventName,
					TransactionID: txnID,
				})
				assert.NoError(t, err)
			}(event.Name, txn.ID)
		}
	}
	wg.Wait()

	assert.Equal(t, 0.00, env.debtOf(t, "bob"))

	history, err := env.queries.GetSettlementHistory("bob")
	require.NoError(t, err)
	assert.Len(t, history, count)
}
