package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldDBPath        = "db_path"
	FieldUserID        = "user_id"
	FieldEmail         = "email"
	FieldTransactionID = "transaction_id"
	FieldAmount        = "amount"
	FieldType          = "type"
	FieldCategory      = "category"
	FieldDate          = "date"
	FieldYear          = "year"
	FieldMonth         = "month"
	FieldCount         = "count"
	FieldEvent         = "event"
	FieldCommand       = "command"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpDelete   = "delete"
	OpList     = "list"
	OpSummary  = "summary"
	OpPublish  = "publish"
	OpMigrate  = "migrate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error and, when known, its classification
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		if errorType != "" {
			f[FieldErrorType] = errorType
		}
	}
	return f
}

// WithUser adds user-related fields
func (f LogFields) WithUser(id int64, email string) LogFields {
	if id != 0 {
		f[FieldUserID] = id
	}
	if email != "" {
		f[FieldEmail] = email
	}
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id int64, amount, txType, category, date string) LogFields {
	f[FieldTransactionID] = id
	f[FieldAmount] = amount
	f[FieldType] = txType
	f[FieldCategory] = category
	f[FieldDate] = date
	return f
}

// WithPeriod adds year and month fields
func (f LogFields) WithPeriod(year, month int) LogFields {
	f[FieldYear] = year
	f[FieldMonth] = month
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
