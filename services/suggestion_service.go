package services

import (
	"errors"
	"sort"

	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/repository"
	"github.com/fadhlanhapp/groupledger-backend/utils"
)

// SuggestionService nets a group's unpaid transactions into per-member
// balances and proposes a minimal list of transfers to settle everyone up.
// Suggestions are advisory: settling still happens one transaction at a
// time through the settlement engine.
type SuggestionService struct {
	store Store
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(store Store) *SuggestionService {
	return &SuggestionService{store: store}
}

// SuggestSettlements computes the group's unpaid net balances and the
// transfers that would settle them
func (s *SuggestionService) SuggestSettlements(groupID string) (*models.SettlementSuggestion, error) {
	group, err := s.store.GetGroup(groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			return nil, utils.NewNotFoundError("Group")
		}
		return nil, utils.NewStorageError(err)
	}

	balances := s.calculateBalances(group)
	transfers := s.generateTransfers(s.extractCreditors(balances), s.extractDebtors(balances))

	return &models.SettlementSuggestion{
		GroupID:   groupID,
		Balances:  sortedBalances(balances),
		Transfers: transfers,
	}, nil
}

// calculateBalances nets every unpaid transaction: the debtor's balance
// drops by the amount, the creditor's rises
func (s *SuggestionService) calculateBalances(group *models.Group) map[string]float64 {
	balances := make(map[string]float64)

	for _, event := range group.Events {
		for _, txn := range event.Transactions {
			if txn.IsPaid {
				continue
			}
			balances[txn.OwedBy] -= txn.Amount
			balances[txn.OwedTo] += txn.Amount
		}
	}

	for person, balance := range balances {
		balances[person] = utils.Round(balance)
	}
	return balances
}

// extractCreditors extracts people who are owed money, largest first
func (s *SuggestionService) extractCreditors(balances map[string]float64) []personBalance {
	var creditors []personBalance
	for person, balance := range balances {
		if balance > 0 {
			creditors = append(creditors, personBalance{Person: person, Balance: balance})
		}
	}
	sortByBalance(creditors)
	return creditors
}

// extractDebtors extracts people who owe money, largest first
func (s *SuggestionService) extractDebtors(balances map[string]float64) []personBalance {
	var debtors []personBalance
	for person, balance := range balances {
		if balance < 0 {
			debtors = append(debtors, personBalance{Person: person, Balance: -balance})
		}
	}
	sortByBalance(debtors)
	return debtors
}

// generateTransfers greedily matches the largest creditor against the
// largest debtor until both sides are exhausted
func (s *SuggestionService) generateTransfers(creditors, debtors []personBalance) []models.SuggestedTransfer {
	transfers := []models.SuggestedTransfer{}

	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		amount := utils.Round(utils.Min(creditors[i].Balance, debtors[j].Balance))

		if amount > 0 {
			transfers = append(transfers, models.SuggestedTransfer{
				From:   debtors[j].Person,
				To:     creditors[i].Person,
				Amount: amount,
			})
		}

		creditors[i].Balance -= amount
		debtors[j].Balance -= amount

		if utils.Round(creditors[i].Balance) == 0 {
			i++
		}
		if utils.Round(debtors[j].Balance) == 0 {
			j++
		}
	}

	return transfers
}

// personBalance represents a person and their net balance
type personBalance struct {
	Person  string
	Balance float64
}

func sortByBalance(slice []personBalance) {
	sort.Slice(slice, func(i, j int) bool {
		if slice[i].Balance != slice[j].Balance {
			return slice[i].Balance > slice[j].Balance
		}
		return slice[i].Person < slice[j].Person
	})
}

func sortedBalances(balances map[string]float64) []models.MemberBalance {
	result := make([]models.MemberBalance, 0, len(balances))
	for person, balance := range balances {
		result = append(result, models.MemberBalance{Username: person, Balance: balance})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})
	return result
}
