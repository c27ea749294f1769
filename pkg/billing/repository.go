package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crewdeck/crewdeck/pkg/finance"
	"github.com/crewdeck/crewdeck/pkg/task"
	log "github.com/sirupsen/logrus"
)

// ErrAlreadyGenerated is returned by PostLedger when another invocation linked
// ledger entries onto the task first. The loser's inserts are rolled back, so
// the error is benign for the caller.
var ErrAlreadyGenerated = errors.New("ledger entries already generated for task")

type Repository interface {
	// RefreshAppliedRates writes the audit snapshot of the latest rate
	// resolution onto the task without touching ledger linkage.
	RefreshAppliedRates(ctx context.Context, userId int, t task.Task) error
	// PostLedger inserts the given ledger entries and links their ids onto
	// the task in a single database transaction. The link is a compare-and-set
	// on both tx-id columns being empty; losing the race rolls everything
	// back and returns ErrAlreadyGenerated.
	PostLedger(ctx context.Context, userId int, t task.Task, entries []finance.Transaction) error
	// TxIds reads the ledger linkage currently on the task.
	TxIds(ctx context.Context, userId int, taskId string) (incomeTxId, expenseTxId string, err error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) RefreshAppliedRates(ctx context.Context, userId int, t task.Task) error {
	query := `UPDATE task SET applied_cost_rate = ?, applied_bill_rate = ?, applied_hourly_rate = ?
			  WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullInt(t.AppliedCostRate),
		nullInt(t.AppliedBillRate),
		nullInt(t.AppliedHourlyRate),
		t.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not refresh applied rates for task %s: %w", t.ID, err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) PostLedger(ctx context.Context, userId int, t task.Task, entries []finance.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin ledger transaction: %w", err)
	}
	defer dbTx.Rollback()

	insert := `INSERT INTO ledger_transaction
			   (id, transaction_type, amount, date, category, description, tags, employee_id, project_id, task_id, user_id)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, entry := range entries {
		_, err := dbTx.ExecContext(ctx, insert,
			entry.ID,
			string(entry.TransactionType),
			entry.Amount,
			entry.Date.Format("2006-01-02"),
			entry.Category,
			entry.Description,
			strings.Join(entry.Tags, ","),
			nullStr(entry.EmployeeID),
			nullStr(entry.ProjectID),
			nullStr(entry.TaskID),
			userId,
		)
		if err != nil {
			err := fmt.Errorf("could not insert %s ledger entry for task %s: %w", entry.TransactionType, t.ID, err)
			log.Error(err)
			return err
		}
	}

	// the link is set at most once per task lifetime; losing the CAS means a
	// concurrent invocation already posted, so this one backs out entirely
	link := `UPDATE task SET
				 applied_cost_rate = ?,
				 applied_bill_rate = ?,
				 applied_hourly_rate = ?,
				 income_tx_id = ?,
				 expense_tx_id = ?
			 WHERE id = ? AND user_id = ? AND income_tx_id IS NULL AND expense_tx_id IS NULL`
	result, err := dbTx.ExecContext(ctx, link,
		nullInt(t.AppliedCostRate),
		nullInt(t.AppliedBillRate),
		nullInt(t.AppliedHourlyRate),
		nullStr(t.IncomeTxID),
		nullStr(t.ExpenseTxID),
		t.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not link ledger entries onto task %s: %w", t.ID, err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyGenerated
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("could not commit ledger transaction for task %s: %w", t.ID, err)
	}
	return nil
}

func (r *RepositoryImpl) TxIds(ctx context.Context, userId int, taskId string) (string, string, error) {
	query := `SELECT income_tx_id, expense_tx_id FROM task WHERE id = ? AND user_id = ?`
	var incomeTxId, expenseTxId sql.NullString
	err := r.db.QueryRowContext(ctx, query, taskId, userId).Scan(&incomeTxId, &expenseTxId)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", task.ErrTaskNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not read ledger linkage for task %s: %w", taskId, err)
		log.Error(err)
		return "", "", err
	}
	return incomeTxId.String, expenseTxId.String, nil
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
