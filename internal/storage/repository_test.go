package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateUser(t *testing.T, repo *SQLiteRepository, name, email string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), name, email, core.NewDate(2024, time.January, 1))
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", email, err)
	}
	return u
}

func mustCreateTx(t *testing.T, repo *SQLiteRepository, userID int64, amount string, typ core.TransactionType, category string, date core.Date) core.Transaction {
	t.Helper()
	tx, err := repo.CreateTransaction(context.Background(), core.Transaction{
		UserID:   userID,
		Amount:   decimal.RequireFromString(amount),
		Type:     typ,
		Category: category,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return tx
}

func TestCreateAndGetUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := mustCreateUser(t, repo, "Alice", "alice@example.com")
	if u.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if u.CreatedAt.String() != "2024-01-01" {
		t.Errorf("CreatedAt = %s", u.CreatedAt)
	}

	byEmail, err := repo.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail != u {
		t.Errorf("GetUserByEmail = %+v, want %+v", byEmail, u)
	}

	byID, err := repo.GetUser(ctx, u.ID)
	if err != nil || byID != u {
		t.Errorf("GetUser = %+v (err=%v), want %+v", byID, err, u)
	}

	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing email: expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateUser(t, repo, "Alice", "alice@example.com")
	_, err := repo.CreateUser(ctx, "Other Alice", "alice@example.com", core.NewDate(2024, time.January, 2))
	if !errors.Is(err, ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got %v", err)
	}

	var count int
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user row, got %d", count)
	}
}

func TestCreateTransactionUnknownUser(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		UserID: 999,
		Amount: decimal.NewFromInt(10),
		Type:   core.Expense,
		Date:   core.NewDate(2024, time.January, 1),
	})
	if !errors.Is(err, ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustCreateUser(t, repo, "Alice", "alice@example.com")

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID:      u.ID,
		Amount:      decimal.RequireFromString("12.34"),
		Type:        core.Expense,
		Category:    "Food",
		Date:        core.NewDate(2024, time.March, 9),
		Description: "lunch",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("12.34")) || got.Type != core.Expense ||
		got.Category != "Food" || got.Date.String() != "2024-03-09" || got.Description != "lunch" || got.UserID != u.ID {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if _, err := repo.GetTransaction(ctx, created.ID+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListTransactionsFiltersAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := mustCreateUser(t, repo, "Alice", "alice@example.com")
	bob := mustCreateUser(t, repo, "Bob", "bob@example.com")

	d := func(m time.Month, day int) core.Date { return core.NewDate(2024, m, day) }
	t3 := mustCreateTx(t, repo, alice.ID, "30", core.Expense, "Food", d(time.March, 1))
	t1 := mustCreateTx(t, repo, alice.ID, "1000", core.Income, "Salary", d(time.January, 5))
	t2 := mustCreateTx(t, repo, alice.ID, "20", core.Expense, "Food", d(time.January, 20))
	t4 := mustCreateTx(t, repo, alice.ID, "15", core.Expense, "Transport", d(time.January, 20))
	mustCreateTx(t, repo, bob.ID, "99", core.Expense, "Food", d(time.January, 20))

	ids := func(txs []core.Transaction) []int64 {
		out := make([]int64, len(txs))
		for i, tx := range txs {
			out[i] = tx.ID
		}
		return out
	}
	jan1, jan20, jan31 := d(time.January, 1), d(time.January, 20), d(time.January, 31)

	tests := []struct {
		name   string
		filter core.TransactionFilter
		want   []int64
	}{
		{"no filter ordered by date then id", core.TransactionFilter{}, []int64{t1.ID, t2.ID, t4.ID, t3.ID}},
		{"type", core.TransactionFilter{Type: core.Income}, []int64{t1.ID}},
		{"category and type", core.TransactionFilter{Type: core.Expense, Category: "Food"}, []int64{t2.ID, t3.ID}},
		{"inclusive date range", core.TransactionFilter{StartDate: &jan1, EndDate: &jan20}, []int64{t1.ID, t2.ID, t4.ID}},
		{"start only", core.TransactionFilter{StartDate: &jan20}, []int64{t2.ID, t4.ID, t3.ID}},
		{"end only", core.TransactionFilter{EndDate: &jan31}, []int64{t1.ID, t2.ID, t4.ID}},
		{"no match", core.TransactionFilter{Category: "Rent"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListTransactions(ctx, alice.ID, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions: %v", err)
			}
			gotIDs := ids(got)
			if len(gotIDs) != len(tt.want) {
				t.Fatalf("got %v, want %v", gotIDs, tt.want)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", gotIDs, tt.want)
				}
			}
		})
	}
}

func TestTransactionsInRangeIsHalfOpen(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustCreateUser(t, repo, "Alice", "alice@example.com")

	mustCreateTx(t, repo, u.ID, "1", core.Income, "x", core.NewDate(2024, time.January, 1))
	mustCreateTx(t, repo, u.ID, "2", core.Income, "x", core.NewDate(2024, time.January, 31))
	mustCreateTx(t, repo, u.ID, "4", core.Income, "x", core.NewDate(2024, time.February, 1))

	start, end := core.MonthRange(2024, time.January)
	txs, err := repo.TransactionsInRange(ctx, u.ID, start, end)
	if err != nil {
		t.Fatalf("TransactionsInRange: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions in January, got %d", len(txs))
	}
}

func TestDeleteUserCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := mustCreateUser(t, repo, "Alice", "alice@example.com")
	bob := mustCreateUser(t, repo, "Bob", "bob@example.com")

	a1 := mustCreateTx(t, repo, alice.ID, "10", core.Expense, "Food", core.NewDate(2024, time.January, 1))
	a2 := mustCreateTx(t, repo, alice.ID, "20", core.Income, "Gift", core.NewDate(2024, time.January, 2))
	b1 := mustCreateTx(t, repo, bob.ID, "30", core.Expense, "Food", core.NewDate(2024, time.January, 3))

	removed, err := repo.DeleteUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	for _, id := range []int64{a1.ID, a2.ID} {
		if _, err := repo.GetTransaction(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("transaction %d should be gone, got %v", id, err)
		}
	}
	if _, err := repo.GetTransaction(ctx, b1.ID); err != nil {
		t.Errorf("other user's transaction should survive: %v", err)
	}
	if _, err := repo.GetUser(ctx, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("user should be gone, got %v", err)
	}

	if _, err := repo.DeleteUser(ctx, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUserRollsBackOnFailure(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustCreateUser(t, repo, "Alice", "alice@example.com")
	tx := mustCreateTx(t, repo, u.ID, "10", core.Expense, "Food", core.NewDate(2024, time.January, 1))

	// The parent delete fails after the children are already gone inside the transaction.
	if _, err := repo.db.ExecContext(ctx, `CREATE TRIGGER block_user_delete BEFORE DELETE ON users
		BEGIN SELECT RAISE(ABORT, 'blocked'); END`); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.DeleteUser(ctx, u.ID); err == nil {
		t.Fatal("DeleteUser should fail while the trigger blocks it")
	}

	n, err := repo.CountTransactions(ctx, u.ID)
	if err != nil || n != 1 {
		t.Fatalf("transactions left = %d (err=%v), want 1 after rollback", n, err)
	}
	if _, err := repo.GetTransaction(ctx, tx.ID); err != nil {
		t.Errorf("transaction should be restored: %v", err)
	}
	if _, err := repo.GetUser(ctx, u.ID); err != nil {
		t.Errorf("user should still exist: %v", err)
	}
}

func TestForeignKeyCascadeEnabled(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustCreateUser(t, repo, "Alice", "alice@example.com")
	tx := mustCreateTx(t, repo, u.ID, "10", core.Expense, "Food", core.NewDate(2024, time.January, 1))

	// Bypass the repository to check the schema-level cascade on its own.
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetTransaction(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ON DELETE CASCADE did not remove transaction: %v", err)
	}
}

func TestDeleteTransactionOwnership(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := mustCreateUser(t, repo, "Alice", "alice@example.com")
	bob := mustCreateUser(t, repo, "Bob", "bob@example.com")
	tx := mustCreateTx(t, repo, alice.ID, "10", core.Expense, "Food", core.NewDate(2024, time.January, 1))

	if err := repo.DeleteTransaction(ctx, bob.ID, tx.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := repo.GetTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("transaction should be intact: %v", err)
	}

	if err := repo.DeleteTransaction(ctx, alice.ID, tx.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, alice.ID, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestCountTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := mustCreateUser(t, repo, "Alice", "alice@example.com")
	mustCreateTx(t, repo, u.ID, "10", core.Expense, "Food", core.NewDate(2024, time.January, 1))
	mustCreateTx(t, repo, u.ID, "20", core.Expense, "Food", core.NewDate(2024, time.January, 2))

	n, err := repo.CountTransactions(ctx, u.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountTransactions = %d (err=%v), want 2", n, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	u := mustCreateUser(t, repo, "Alice", "alice@example.com")
	repo.Close()

	reopened, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("after reopen got %+v (err=%v)", got, err)
	}
	if reopened.Path() != path {
		t.Errorf("Path() = %q, want %q", reopened.Path(), path)
	}
}
