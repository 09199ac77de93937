package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

// Store is the persistence the ledger needs. *storage.SQLiteRepository implements it.
type Store interface {
	CreateUser(ctx context.Context, name, email string, createdAt core.Date) (core.User, error)
	GetUser(ctx context.Context, id int64) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
	CountTransactions(ctx context.Context, userID int64) (int64, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, filter core.TransactionFilter) ([]core.Transaction, error)
	TransactionsInRange(ctx context.Context, userID int64, start, end core.Date) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
	Close() error
}

// EventPublisher receives a notification after each committed mutation. *amqp.Client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, event amqp.LedgerEvent) error
	Close() error
}

// SummaryKey identifies one cached monthly summary.
type SummaryKey struct {
	UserID int64
	Year   int
	Month  time.Month
}

// SummaryCache holds monthly summaries between mutations. *cache.LRU implements it.
type SummaryCache = cache.Cache[SummaryKey, core.MonthlySummary]

var _ Store = (*storage.SQLiteRepository)(nil)
var _ EventPublisher = (*amqp.Client)(nil)

// LedgerService implements the user registry and the transaction ledger.
// Every error it returns is a *core.Error.
type LedgerService struct {
	store     Store
	events    EventPublisher
	summaries SummaryCache
	logger    *applog.Logger
	now       func() time.Time
}

// NewLedgerService wires the ledger. events and summaries are optional and may be nil.
func NewLedgerService(store Store, events EventPublisher, summaries SummaryCache) *LedgerService {
	return &LedgerService{
		store:     store,
		events:    events,
		summaries: summaries,
		logger:    applog.Default(applog.ComponentLedger),
		now:       time.Now,
	}
}

// CreateUser registers a profile. A taken email yields a DuplicateKey error and no new row.
func (s *LedgerService) CreateUser(ctx context.Context, name, email string) (core.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := core.ValidateName(name); err != nil {
		return core.User{}, s.fail(ctx, applog.OpCreate, core.Validation(err))
	}
	if err := core.ValidateEmail(email); err != nil {
		return core.User{}, s.fail(ctx, applog.OpCreate, core.Validation(err))
	}

	u, err := s.store.CreateUser(ctx, name, email, core.DateOf(s.now()))
	if errors.Is(err, storage.ErrUniqueViolation) {
		return core.User{}, s.fail(ctx, applog.OpCreate,
			core.DuplicateKey("Email %s already exists. Please use a different email.", email))
	}
	if err != nil {
		return core.User{}, s.fail(ctx, applog.OpCreate, core.Storage(err, "Error creating user"))
	}

	s.logger.InfoContext(ctx, "User created", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithUser(u.ID, u.Email).
		ToSlice()...)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.UserCreated, u.ID, 0))

	return u, nil
}

// GetUserByEmail returns (nil, nil) when no user has that email.
func (s *LedgerService) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail(ctx, applog.OpRead, core.Storage(err, "Error looking up user"))
	}
	return &u, nil
}

func (s *LedgerService) GetUser(ctx context.Context, id int64) (core.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return core.User{}, s.fail(ctx, applog.OpRead, core.NotFound("User not found"))
	}
	if err != nil {
		return core.User{}, s.fail(ctx, applog.OpRead, core.Storage(err, "Error looking up user"))
	}
	return u, nil
}

// CountTransactions returns how many transactions userID owns.
func (s *LedgerService) CountTransactions(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.CountTransactions(ctx, userID)
	if err != nil {
		return 0, s.fail(ctx, applog.OpRead, core.Storage(err, "Error counting transactions"))
	}
	return n, nil
}

// DeleteUser removes the user and all of its transactions atomically.
func (s *LedgerService) DeleteUser(ctx context.Context, userID int64) error {
	removed, err := s.store.DeleteUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return s.fail(ctx, applog.OpDelete, core.NotFound("User not found"))
	}
	if err != nil {
		return s.fail(ctx, applog.OpDelete, core.Storage(err, "Error deleting user"))
	}

	s.invalidate(userID)
	s.logger.InfoContext(ctx, "User deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldUserID, userID,
		applog.FieldCount, removed)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.UserDeleted, userID, 0))

	return nil
}

// CreateTransaction validates the raw entry and records it for an existing user.
func (s *LedgerService) CreateTransaction(ctx context.Context, in core.NewTransaction) (core.Transaction, error) {
	typ, err := core.ParseTransactionType(in.Type)
	if err != nil {
		return core.Transaction{}, s.fail(ctx, applog.OpCreate, core.Validation(err))
	}
	if err := core.ValidateAmount(in.Amount); err != nil {
		return core.Transaction{}, s.fail(ctx, applog.OpCreate, core.Validation(err))
	}

	date := core.DateOf(s.now())
	if strings.TrimSpace(in.Date) != "" {
		date, err = core.ParseDate(in.Date)
		if err != nil {
			return core.Transaction{}, s.fail(ctx, applog.OpCreate, core.Validation(err))
		}
	}

	if _, err := s.store.GetUser(ctx, in.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return core.Transaction{}, s.fail(ctx, applog.OpCreate, core.NotFound("User %d not found", in.UserID))
		}
		return core.Transaction{}, s.fail(ctx, applog.OpCreate, core.Storage(err, "Error creating transaction"))
	}

	created, err := s.store.CreateTransaction(ctx, core.Transaction{
		UserID:      in.UserID,
		Amount:      in.Amount,
		Type:        typ,
		Category:    strings.TrimSpace(in.Category),
		Date:        date,
		Description: strings.TrimSpace(in.Description),
	})
	if errors.Is(err, storage.ErrForeignKeyViolation) {
		// The user vanished between the check and the insert.
		return core.Transaction{}, s.fail(ctx, applog.OpCreate, core.NotFound("User %d not found", in.UserID))
	}
	if err != nil {
		return core.Transaction{}, s.fail(ctx, applog.OpCreate, core.Storage(err, "Error creating transaction"))
	}

	s.invalidate(in.UserID)
	s.logger.InfoContext(ctx, "Transaction created", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithUser(created.UserID, "").
		WithTransaction(created.ID, created.Amount.String(), string(created.Type), created.Category, created.Date.String()).
		ToSlice()...)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.TransactionCreated, created.UserID, created.ID))

	return created, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Transaction{}, s.fail(ctx, applog.OpRead, core.NotFound("Transaction %d not found", id))
	}
	if err != nil {
		return core.Transaction{}, s.fail(ctx, applog.OpRead, core.Storage(err, "Error reading transaction"))
	}
	return t, nil
}

// DeleteTransaction removes transactionID only when userID owns it.
// Forbidden means the transaction exists but belongs to someone else.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, transactionID int64) error {
	err := s.store.DeleteTransaction(ctx, userID, transactionID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s.fail(ctx, applog.OpDelete, core.NotFound("Transaction %d not found", transactionID))
	case errors.Is(err, storage.ErrNotOwner):
		return s.fail(ctx, applog.OpDelete, core.Forbidden("Transaction %d doesn't belong to you", transactionID))
	case err != nil:
		return s.fail(ctx, applog.OpDelete, core.Storage(err, "Error deleting transaction"))
	}

	s.invalidate(userID)
	s.logger.InfoContext(ctx, "Transaction deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldUserID, userID,
		applog.FieldTransactionID, transactionID)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.TransactionDeleted, userID, transactionID))

	return nil
}

// ListTransactions returns the user's transactions matching every set filter,
// ordered by date then id. An unknown user simply has no transactions.
func (s *LedgerService) ListTransactions(ctx context.Context, userID int64, filter core.TransactionFilter) ([]core.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, s.fail(ctx, applog.OpList, core.Validation(err))
	}
	txs, err := s.store.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, s.fail(ctx, applog.OpList, core.Storage(err, "Error listing transactions"))
	}
	return txs, nil
}

// MonthlySummary totals income and expenses dated inside the calendar month.
// month is expected in 1..12; callers validate it.
func (s *LedgerService) MonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (core.MonthlySummary, error) {
	key := SummaryKey{UserID: userID, Year: year, Month: month}
	if s.summaries != nil {
		if sum, ok := s.summaries.Get(key); ok {
			s.logger.DebugContext(ctx, "Monthly summary served from cache", applog.NewFields().
				WithUser(userID, "").
				WithPeriod(year, int(month)).
				ToSlice()...)
			return sum, nil
		}
	}

	s.logger.DebugContext(ctx, "Monthly summary cache miss", applog.NewFields().
		WithUser(userID, "").
		WithPeriod(year, int(month)).
		ToSlice()...)

	start, end := core.MonthRange(year, month)
	txs, err := s.store.TransactionsInRange(ctx, userID, start, end)
	if err != nil {
		return core.MonthlySummary{}, s.fail(ctx, applog.OpSummary, core.Storage(err, "Error computing monthly summary"))
	}

	sum := core.Summarize(year, month, txs)
	if s.summaries != nil {
		s.summaries.Set(key, sum)
	}
	return sum, nil
}

// Close releases the store and the event publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}

	return nil
}

func (s *LedgerService) invalidate(userID int64) {
	if s.summaries == nil {
		return
	}
	s.summaries.Invalidate(func(k SummaryKey) bool { return k.UserID == userID })
}

func (s *LedgerService) publish(ctx context.Context, event amqp.LedgerEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			applog.FieldOperation, applog.OpPublish,
			applog.FieldEvent, event.Type,
			applog.FieldUserID, event.UserID,
			applog.FieldError, err)
	}
}

// fail logs a classified failure and returns it unchanged.
func (s *LedgerService) fail(ctx context.Context, op string, e *core.Error) error {
	fields := applog.NewFields().WithOperation(op).WithError(e, string(e.Kind)).ToSlice()
	if e.Kind == core.KindStorage {
		s.logger.ErrorContext(ctx, "Ledger operation failed", fields...)
	} else {
		s.logger.DebugContext(ctx, "Ledger operation rejected", fields...)
	}
	return e
}
