package storage

import (
	"context"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (name, email, created_at)
VALUES (?, ?, ?)
RETURNING id, name, email, created_at
`

type CreateUserParams struct {
	Name      string
	Email     string
	CreatedAt string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Name, arg.Email, arg.CreatedAt)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.CreatedAt,
	)
	return i, err
}

const getUser = `-- name: GetUser :one
SELECT id, name, email, created_at FROM users
WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, name, email, created_at FROM users
WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.CreatedAt,
	)
	return i, err
}

const deleteUser = `-- name: DeleteUser :execrows
DELETE FROM users
WHERE id = ?
`

func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransactionsByUser = `-- name: DeleteTransactionsByUser :execrows
DELETE FROM transactions
WHERE user_id = ?
`

func (q *Queries) DeleteTransactionsByUser(ctx context.Context, userID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransactionsByUser, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countTransactionsByUser = `-- name: CountTransactionsByUser :one
SELECT COUNT(*) FROM transactions
WHERE user_id = ?
`

func (q *Queries) CountTransactionsByUser(ctx context.Context, userID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactionsByUser, userID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (amount, type, category, date, description, user_id)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, amount, type, category, date, description, user_id
`

type CreateTransactionParams struct {
	Amount      string
	Type        string
	Category    string
	Date        string
	Description string
	UserID      int64
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Amount,
		arg.Type,
		arg.Category,
		arg.Date,
		arg.Description,
		arg.UserID,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Amount,
		&i.Type,
		&i.Category,
		&i.Date,
		&i.Description,
		&i.UserID,
	)
	return i, err
}

const getTransaction = `-- name: GetTransaction :one
SELECT id, amount, type, category, date, description, user_id FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Amount,
		&i.Type,
		&i.Category,
		&i.Date,
		&i.Description,
		&i.UserID,
	)
	return i, err
}

const listTransactions = `-- name: ListTransactions :many
SELECT id, amount, type, category, date, description, user_id FROM transactions
WHERE user_id = ?
  AND (? = '' OR type = ?)
  AND (? = '' OR category = ?)
  AND (? = '' OR date >= ?)
  AND (? = '' OR date <= ?)
ORDER BY date, id
`

// ListTransactionsParams uses empty strings for filters that are not set.
type ListTransactionsParams struct {
	UserID    int64
	Type      string
	Category  string
	StartDate string
	EndDate   string
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions,
		arg.UserID,
		arg.Type, arg.Type,
		arg.Category, arg.Category,
		arg.StartDate, arg.StartDate,
		arg.EndDate, arg.EndDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const listTransactionsInRange = `-- name: ListTransactionsInRange :many
SELECT id, amount, type, category, date, description, user_id FROM transactions
WHERE user_id = ?
  AND date >= ?
  AND date < ?
ORDER BY date, id
`

// ListTransactionsInRangeParams bounds are [StartDate, EndDate).
type ListTransactionsInRangeParams struct {
	UserID    int64
	StartDate string
	EndDate   string
}

func (q *Queries) ListTransactionsInRange(ctx context.Context, arg ListTransactionsInRangeParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsInRange, arg.UserID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions
WHERE id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

func scanTransactions(rows rowScanner) ([]Transaction, error) {
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.Amount,
			&i.Type,
			&i.Category,
			&i.Date,
			&i.Description,
			&i.UserID,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
