package storage

// User is a row of the users table.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt string
}

// Transaction is a row of the transactions table. Amount is canonical decimal
// text and Date is YYYY-MM-DD, so lexical comparison orders dates correctly.
type Transaction struct {
	ID          int64
	Amount      string
	Type        string
	Category    string
	Date        string
	Description string
	UserID      int64
}
