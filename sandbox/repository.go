package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgconn"
	"github.com/lib/pq"

	"github.com/qantani/qantani-go/sandbox/models"
)

var (
	ErrNotFound = fmt.Errorf("not found")
	ErrConflict = fmt.Errorf("conflict")
)

// Repository stores sandbox transactions either in memory (the default) or
// in Postgres when constructed with NewPGRepository.
type Repository struct {
	mu           sync.RWMutex
	transactions map[string]*models.Transaction

	db *sql.DB
}

func NewRepository() *Repository {
	return &Repository{
		transactions: make(map[string]*models.Transaction),
	}
}

// NewPGRepository constructs a db-backed repository.
func NewPGRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.transactions[tx.ID]; ok {
			return fmt.Errorf("transaction %s exists: %w", tx.ID, ErrConflict)
		}
		cp := *tx
		r.transactions[tx.ID] = &cp
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sandbox.transactions(transaction_id, transaction_code, amount_cents, currency, bank_id, description, return_url, paid, definitive)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, tx.ID, tx.Code, tx.AmountCents, tx.Currency, tx.BankID, tx.Description, tx.ReturnURL, tx.Paid, tx.Definitive)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *Repository) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		tx, ok := r.transactions[transactionID]
		if !ok {
			return nil, ErrNotFound
		}
		cp := *tx
		return &cp, nil
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT transaction_id, transaction_code, amount_cents, currency, bank_id, description, return_url, paid, definitive, consumer_name, consumer_iban, created_at
		FROM sandbox.transactions WHERE transaction_id=$1
	`, transactionID)

	tx := models.Transaction{}
	var consumerName, consumerIBAN sql.NullString
	err := row.Scan(&tx.ID, &tx.Code, &tx.AmountCents, &tx.Currency, &tx.BankID, &tx.Description, &tx.ReturnURL, &tx.Paid, &tx.Definitive, &consumerName, &consumerIBAN, &tx.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	tx.ConsumerName = consumerName.String
	tx.ConsumerIBAN = consumerIBAN.String
	return &tx, nil
}

// MarkPaid settles a transaction and records the paying consumer.
func (r *Repository) MarkPaid(ctx context.Context, transactionID, consumerName, consumerIBAN string) (*models.Transaction, error) {
	if r.db == nil {
		r.mu.Lock()
		tx, ok := r.transactions[transactionID]
		if !ok {
			r.mu.Unlock()
			return nil, ErrNotFound
		}
		tx.Paid = true
		tx.Definitive = true
		tx.ConsumerName = consumerName
		tx.ConsumerIBAN = consumerIBAN
		cp := *tx
		r.mu.Unlock()
		return &cp, nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE sandbox.transactions
		   SET paid=true, definitive=true, consumer_name=$2, consumer_iban=$3
		 WHERE transaction_id=$1
	`, transactionID, consumerName, consumerIBAN)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, ErrNotFound
	}
	return r.GetTransaction(ctx, transactionID)
}

// Ping returns backend readiness.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
