package domain

// Ledger is the shared store of accounts and transaction records. All
// mutation flows through the single processor goroutine; the interface hides
// the container choice so the backing structure can change without touching
// callers.
type Ledger interface {
	// Account operations
	GetOrCreateAccount(clientID uint16) *Account
	GetAccount(clientID uint16) (*Account, bool)

	// Transaction record operations
	InsertRecordIfAbsent(txID uint32, rec TransactionRecord) bool
	GetRecord(txID uint32) (*TransactionRecord, bool)

	// Accounts returns a snapshot of every known account for reporting.
	Accounts() []Account
}
