package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/core"
	applog "fintrack/internal/log"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
	ErrNotOwner            = errors.New("record belongs to another user")
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	path    string
	logger  *applog.Logger
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Foreign keys are off by default in SQLite and are a per-connection setting.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		path:    dbPath,
		logger:  applog.Default(applog.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Path returns the database file the repository was opened on.
func (r *SQLiteRepository) Path() string {
	return r.path
}

// withTx runs fn inside one SQL transaction and rolls back if fn or the commit fails.
func (r *SQLiteRepository) withTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.WarnContext(ctx, "Rollback failed", applog.FieldError, rbErr)
		}
	}()

	if err = fn(r.queries.WithTx(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", classify(err))
	}
	return nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, name, email string, createdAt core.Date) (core.User, error) {
	var row User
	err := r.withTx(ctx, func(q *Queries) error {
		var err error
		row, err = q.CreateUser(ctx, CreateUserParams{
			Name:      name,
			Email:     email,
			CreatedAt: createdAt.String(),
		})
		if err != nil {
			return fmt.Errorf("insert user: %w", classify(err))
		}
		return nil
	})
	if err != nil {
		return core.User{}, err
	}

	r.logger.InfoContext(ctx, "User saved to SQLite",
		applog.FieldUserID, row.ID,
		applog.FieldEmail, row.Email)

	return toCoreUser(row)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	row, err := r.queries.GetUser(ctx, id)
	if err != nil {
		return core.User{}, fmt.Errorf("get user %d: %w", id, classify(err))
	}
	return toCoreUser(row)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", classify(err))
	}
	return toCoreUser(row)
}

// DeleteUser removes the user and every transaction it owns in one SQL
// transaction. Children go first so the result does not depend on the
// foreign key cascade being enabled on the connection.
func (r *SQLiteRepository) DeleteUser(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := r.withTx(ctx, func(q *Queries) error {
		if _, err := q.GetUser(ctx, id); err != nil {
			return fmt.Errorf("get user %d: %w", id, classify(err))
		}

		n, err := q.DeleteTransactionsByUser(ctx, id)
		if err != nil {
			return fmt.Errorf("delete transactions of user %d: %w", id, classify(err))
		}
		removed = n

		if _, err := q.DeleteUser(ctx, id); err != nil {
			return fmt.Errorf("delete user %d: %w", id, classify(err))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.InfoContext(ctx, "User deleted from SQLite",
		applog.FieldUserID, id,
		applog.FieldCount, removed)

	return removed, nil
}

// CountTransactions returns how many transactions the user owns.
func (r *SQLiteRepository) CountTransactions(ctx context.Context, userID int64) (int64, error) {
	n, err := r.queries.CountTransactionsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", classify(err))
	}
	return n, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	var row Transaction
	err := r.withTx(ctx, func(q *Queries) error {
		var err error
		row, err = q.CreateTransaction(ctx, CreateTransactionParams{
			Amount:      t.Amount.String(),
			Type:        string(t.Type),
			Category:    t.Category,
			Date:        t.Date.String(),
			Description: t.Description,
			UserID:      t.UserID,
		})
		if err != nil {
			return fmt.Errorf("insert transaction: %w", classify(err))
		}
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}

	r.logger.InfoContext(ctx, "Transaction saved to SQLite", applog.NewFields().
		WithUser(row.UserID, "").
		WithTransaction(row.ID, row.Amount, row.Type, row.Category, row.Date).
		ToSlice()...)

	return toCoreTransaction(row)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, classify(err))
	}
	return toCoreTransaction(row)
}

// ListTransactions returns the user's transactions matching filter, ordered by date then id.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, filter core.TransactionFilter) ([]core.Transaction, error) {
	arg := ListTransactionsParams{
		UserID:   userID,
		Type:     string(filter.Type),
		Category: filter.Category,
	}
	if filter.StartDate != nil {
		arg.StartDate = filter.StartDate.String()
	}
	if filter.EndDate != nil {
		arg.EndDate = filter.EndDate.String()
	}

	rows, err := r.queries.ListTransactions(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", classify(err))
	}
	return toCoreTransactions(rows)
}

// TransactionsInRange returns the user's transactions dated in [start, end).
func (r *SQLiteRepository) TransactionsInRange(ctx context.Context, userID int64, start, end core.Date) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsInRange(ctx, ListTransactionsInRangeParams{
		UserID:    userID,
		StartDate: start.String(),
		EndDate:   end.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", classify(err))
	}
	return toCoreTransactions(rows)
}

// DeleteTransaction removes transaction id only if userID owns it. The
// ownership check and the delete share one SQL transaction.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	err := r.withTx(ctx, func(q *Queries) error {
		row, err := q.GetTransaction(ctx, id)
		if err != nil {
			return fmt.Errorf("get transaction %d: %w", id, classify(err))
		}
		if row.UserID != userID {
			return fmt.Errorf("transaction %d: %w", id, ErrNotOwner)
		}
		if _, err := q.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("delete transaction %d: %w", id, classify(err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "Transaction deleted from SQLite",
		applog.FieldTransactionID, id,
		applog.FieldUserID, userID)

	return nil
}

// classify tags driver errors with the package sentinels so callers can use errors.Is.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", ErrForeignKeyViolation, err)
		}
	}

	// Fallback for drivers that report only the primary result code.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %w", ErrForeignKeyViolation, err)
	}
	return err
}

func toCoreUser(row User) (core.User, error) {
	created, err := core.ParseDate(row.CreatedAt)
	if err != nil {
		return core.User{}, fmt.Errorf("decode user %d: %w", row.ID, err)
	}
	return core.User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		CreatedAt: created,
	}, nil
}

func toCoreTransaction(row Transaction) (core.Transaction, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode amount of transaction %d: %w", row.ID, err)
	}
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode date of transaction %d: %w", row.ID, err)
	}
	return core.Transaction{
		ID:          row.ID,
		UserID:      row.UserID,
		Amount:      amount,
		Type:        core.TransactionType(row.Type),
		Category:    row.Category,
		Date:        date,
		Description: row.Description,
	}, nil
}

func toCoreTransactions(rows []Transaction) ([]core.Transaction, error) {
	txs := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toCoreTransaction(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}
