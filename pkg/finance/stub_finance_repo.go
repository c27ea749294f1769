package finance

import (
	"context"
	"time"
)

type StubRepo struct {
	data map[string]Transaction
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]Transaction{}}
}

func (s *StubRepo) Store(ctx context.Context, userId int, tx Transaction) error {
	s.data[tx.ID] = tx
	return nil
}

func (s *StubRepo) GetAll(ctx context.Context, userId int) ([]Transaction, error) {
	transactions := make([]Transaction, 0, len(s.data))
	for _, tx := range s.data {
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (s *StubRepo) Get(ctx context.Context, userId int, id string) (Transaction, error) {
	tx, ok := s.data[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return tx, nil
}

func (s *StubRepo) Update(ctx context.Context, userId int, tx Transaction) (bool, error) {
	if _, ok := s.data[tx.ID]; !ok {
		return false, nil
	}
	s.data[tx.ID] = tx
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, userId int, id string) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) SummaryForMonth(ctx context.Context, userId int, year int, month time.Month) (MonthlySummary, error) {
	var summary MonthlySummary
	for _, tx := range s.data {
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		switch tx.TransactionType {
		case TransactionIncome:
			summary.Income += tx.Amount
		case TransactionExpense:
			summary.Expense += tx.Amount
		}
	}
	summary.Balance = summary.Income - summary.Expense
	return summary, nil
}

func (s *StubRepo) Cleanup() {
	s.data = map[string]Transaction{}
}
