package billing

import (
	"context"

	"github.com/crewdeck/crewdeck/pkg/finance"
	"github.com/crewdeck/crewdeck/pkg/task"
)

type ledgerLink struct {
	incomeTxId  string
	expenseTxId string
}

type StubRepository struct {
	refreshed []task.Task
	entries   map[string][]finance.Transaction
	links     map[string]ledgerLink
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		entries: map[string][]finance.Transaction{},
		links:   map[string]ledgerLink{},
	}
}

func (s *StubRepository) RefreshAppliedRates(ctx context.Context, userId int, t task.Task) error {
	s.refreshed = append(s.refreshed, t)
	return nil
}

func (s *StubRepository) PostLedger(ctx context.Context, userId int, t task.Task, entries []finance.Transaction) error {
	if _, ok := s.links[t.ID]; ok {
		return ErrAlreadyGenerated
	}
	s.entries[t.ID] = entries
	s.links[t.ID] = ledgerLink{incomeTxId: t.IncomeTxID, expenseTxId: t.ExpenseTxID}
	return nil
}

func (s *StubRepository) TxIds(ctx context.Context, userId int, taskId string) (string, string, error) {
	link, ok := s.links[taskId]
	if !ok {
		return "", "", task.ErrTaskNotFound
	}
	return link.incomeTxId, link.expenseTxId, nil
}

// Entries returns the ledger entries posted for the given task.
func (s *StubRepository) Entries(taskId string) []finance.Transaction {
	return s.entries[taskId]
}

// RefreshCount returns how many times applied rates were refreshed without a
// ledger posting.
func (s *StubRepository) RefreshCount() int {
	return len(s.refreshed)
}

// LastRefreshed returns the most recent task passed to RefreshAppliedRates.
func (s *StubRepository) LastRefreshed() (task.Task, bool) {
	if len(s.refreshed) == 0 {
		return task.Task{}, false
	}
	return s.refreshed[len(s.refreshed)-1], true
}

func (s *StubRepository) Cleanup() {
	s.refreshed = nil
	s.entries = map[string][]finance.Transaction{}
	s.links = map[string]ledgerLink{}
}
