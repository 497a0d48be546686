// Package credits keeps the ledger of credit purchases and spending. The
// balance is the sum of completed movements; nothing is cached.
package credits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidAmount       = errors.New("credits must be positive")
)

const (
	TypePurchase = "purchase"
	TypeUsage    = "usage"
	TypeRefund   = "refund"

	StatusCompleted = "completed"
)

type Transaction struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Amount          float64   `json:"amount"`
	Credits         int       `json:"credits"`
	Description     string    `json:"description"`
	PaymentStatus   string    `json:"payment_status"`
	TransactionType string    `json:"transaction_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// Repository stores ledger rows in PostgreSQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository) Balance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(credits), 0)
		FROM credits_transactions
		WHERE user_id = $1 AND payment_status = $2
	`, userID, StatusCompleted).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// History lists the user's movements, newest first.
func (r *Repository) History(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, credits, description, payment_status, transaction_type, created_at
		FROM credits_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	out := []Transaction{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Credits, &t.Description, &t.PaymentStatus, &t.TransactionType, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Purchase records a completed top-up.
func (r *Repository) Purchase(ctx context.Context, userID string, credits int, amount float64, description string) (*Transaction, error) {
	if credits <= 0 {
		return nil, ErrInvalidAmount
	}
	if description == "" {
		description = fmt.Sprintf("Purchased %d credits", credits)
	}
	t := &Transaction{
		UserID:          userID,
		Amount:          amount,
		Credits:         credits,
		Description:     description,
		PaymentStatus:   StatusCompleted,
		TransactionType: TypePurchase,
	}
	if err := insert(ctx, r.db, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Debit spends credits. The user's ledger rows are locked while the
// balance is checked so concurrent debits cannot overdraw it.
func (r *Repository) Debit(ctx context.Context, userID string, credits int, description string) error {
	if credits <= 0 {
		return ErrInvalidAmount
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT credits
		FROM credits_transactions
		WHERE user_id = $1 AND payment_status = $2
		FOR UPDATE
	`, userID, StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to lock ledger: %w", err)
	}
	balance := 0
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan ledger: %w", err)
		}
		balance += c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	if balance < credits {
		return ErrInsufficientCredits
	}

	t := &Transaction{
		UserID:          userID,
		Credits:         -credits,
		Description:     description,
		PaymentStatus:   StatusCompleted,
		TransactionType: TypeUsage,
	}
	if err := insert(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

// Refund returns credits spent on a run that never reached the vendor.
func (r *Repository) Refund(ctx context.Context, userID string, credits int, description string) error {
	if credits <= 0 {
		return ErrInvalidAmount
	}
	return insert(ctx, r.db, &Transaction{
		UserID:          userID,
		Credits:         credits,
		Description:     "refund: " + description,
		PaymentStatus:   StatusCompleted,
		TransactionType: TypeRefund,
	})
}

func insert(ctx context.Context, q queryer, t *Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	err := q.QueryRowContext(ctx, `
		INSERT INTO credits_transactions (id, user_id, amount, credits, description, payment_status, transaction_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, t.ID, t.UserID, t.Amount, t.Credits, t.Description, t.PaymentStatus, t.TransactionType).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", t.TransactionType, err)
	}
	return nil
}
