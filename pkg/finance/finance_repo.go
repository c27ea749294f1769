package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction does not exist")

type Repo interface {
	Store(ctx context.Context, userId int, tx Transaction) error
	GetAll(ctx context.Context, userId int) ([]Transaction, error)
	Get(ctx context.Context, userId int, id string) (Transaction, error)
	Update(ctx context.Context, userId int, tx Transaction) (bool, error)
	Delete(ctx context.Context, userId int, id string) (bool, error)
	SummaryForMonth(ctx context.Context, userId int, year int, month time.Month) (MonthlySummary, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const txColumns = `id, transaction_type, amount, date, category, description, tags, employee_id, project_id, task_id`

func (r *RepoImpl) Store(ctx context.Context, userId int, tx Transaction) error {
	query := `INSERT INTO ledger_transaction (` + txColumns + `, user_id)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		string(tx.TransactionType),
		tx.Amount,
		tx.Date.Format("2006-01-02"),
		tx.Category,
		tx.Description,
		strings.Join(tx.Tags, ","),
		nullString(tx.EmployeeID),
		nullString(tx.ProjectID),
		nullString(tx.TaskID),
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not store transaction: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM ledger_transaction WHERE user_id = ? ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		tx, err := ScanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return transactions, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id string) (Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM ledger_transaction WHERE user_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, userId, id)
	tx, err := ScanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	return tx, err
}

func (r *RepoImpl) Update(ctx context.Context, userId int, tx Transaction) (bool, error) {
	query := `UPDATE ledger_transaction SET
				  transaction_type = ?,
				  amount = ?,
				  date = ?,
				  category = ?,
				  description = ?,
				  tags = ?,
				  employee_id = ?,
				  project_id = ?
			  WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		string(tx.TransactionType),
		tx.Amount,
		tx.Date.Format("2006-01-02"),
		tx.Category,
		tx.Description,
		strings.Join(tx.Tags, ","),
		nullString(tx.EmployeeID),
		nullString(tx.ProjectID),
		tx.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update transaction: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ledger_transaction WHERE id = ? AND user_id = ?`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) SummaryForMonth(ctx context.Context, userId int, year int, month time.Month) (MonthlySummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	query := `SELECT transaction_type, COALESCE(SUM(amount), 0)
			  FROM ledger_transaction
			  WHERE user_id = ? AND date >= ? AND date < ?
			  GROUP BY transaction_type`
	rows, err := r.db.QueryContext(ctx, query, userId, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		err := fmt.Errorf("could not query monthly summary: %w", err)
		log.Error(err)
		return MonthlySummary{}, err
	}
	defer rows.Close()

	var summary MonthlySummary
	for rows.Next() {
		var txType string
		var total float64
		if err := rows.Scan(&txType, &total); err != nil {
			err := fmt.Errorf("could not scan summary row: %w", err)
			log.Error(err)
			return MonthlySummary{}, err
		}
		switch TransactionType(txType) {
		case TransactionIncome:
			summary.Income = total
		case TransactionExpense:
			summary.Expense = total
		}
	}
	if err := rows.Err(); err != nil {
		return MonthlySummary{}, err
	}
	summary.Balance = summary.Income - summary.Expense
	return summary, nil
}

// ScanTransaction maps a ledger row onto a Transaction. Exported because the
// billing repository reads the same table inside its own transactional unit.
func ScanTransaction(scan func(dest ...any) error) (Transaction, error) {
	var tx Transaction
	var txType, date string
	var category, description, tags, employeeId, projectId, taskId sql.NullString
	err := scan(&tx.ID, &txType, &tx.Amount, &date, &category, &description, &tags, &employeeId, &projectId, &taskId)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, err
	}
	if err != nil {
		err := fmt.Errorf("could not scan transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	tx.TransactionType = TransactionType(txType)
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		err := fmt.Errorf("could not parse transaction date: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	tx.Date = parsed
	tx.Category = category.String
	tx.Description = description.String
	if tags.Valid && tags.String != "" {
		tx.Tags = strings.Split(tags.String, ",")
	}
	tx.EmployeeID = employeeId.String
	tx.ProjectID = projectId.String
	tx.TaskID = taskId.String
	return tx, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
