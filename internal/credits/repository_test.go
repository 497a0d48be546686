package credits

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Balance(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(credits\), 0\)`).
		WithArgs("u1", StatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(12))

	balance, err := repo.Balance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 12, balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Purchase(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`INSERT INTO credits_transactions`).
		WithArgs(sqlmock.AnyArg(), "u1", 9.99, 50, "Purchased 50 credits", StatusCompleted, TypePurchase).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	tx, err := repo.Purchase(context.Background(), "u1", 50, 9.99, "")
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.False(t, tx.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = repo.Purchase(context.Background(), "u1", 0, 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRepository_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("spends when the balance covers it", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT credits\s+FROM credits_transactions .* FOR UPDATE`).
			WithArgs("u1", StatusCompleted).
			WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(10).AddRow(-4))
		mock.ExpectQuery(`INSERT INTO credits_transactions`).
			WithArgs(sqlmock.AnyArg(), "u1", 0.0, -5, "generation: interior-ai", StatusCompleted, TypeUsage).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectCommit()

		require.NoError(t, repo.Debit(ctx, "u1", 5, "generation: interior-ai"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refuses to overdraw", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WithArgs("u1", StatusCompleted).
			WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(3))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Debit(ctx, "u1", 5, "x"), ErrInsufficientCredits)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("new users have nothing to spend", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"credits"}))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Debit(ctx, "new", 1, "x"), ErrInsufficientCredits)
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(10))
		mock.ExpectQuery(`INSERT INTO credits_transactions`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Debit(ctx, "u1", 1, "x"), sql.ErrConnDone)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_RefundAndHistory(t *testing.T) {
	repo, mock := setupRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO credits_transactions`).
		WithArgs(sqlmock.AnyArg(), "u1", 0.0, 2, "refund: generation: upscale-4k", StatusCompleted, TypeRefund).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	require.NoError(t, repo.Refund(ctx, "u1", 2, "generation: upscale-4k"))

	now := time.Now()
	mock.ExpectQuery(`SELECT id, user_id, amount, credits`).
		WithArgs("u1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "credits", "description", "payment_status", "transaction_type", "created_at"}).
			AddRow("t2", "u1", 0.0, 2, "refund", StatusCompleted, TypeRefund, now).
			AddRow("t1", "u1", 9.99, 50, "top-up", StatusCompleted, TypePurchase, now.Add(-time.Hour)))

	history, err := repo.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, TypeRefund, history[0].TransactionType)
	require.NoError(t, mock.ExpectationsWereMet())
}
