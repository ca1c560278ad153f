package ledger

import (
	"github.com/grachmannico95/payment-engine/internal/domain"
)

// Store is the in-memory implementation of domain.Ledger. It carries no
// locking: the transaction processor is its only writer for the lifetime of
// a run, and the report stage reads it only after processing has finished.
type Store struct {
	accounts map[uint16]*domain.Account
	records  map[uint32]*domain.TransactionRecord
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[uint16]*domain.Account, 1024),
		records:  make(map[uint32]*domain.TransactionRecord, 1024),
	}
}

// GetOrCreateAccount returns the account for clientID, creating an empty
// unlocked account on first reference.
func (s *Store) GetOrCreateAccount(clientID uint16) *domain.Account {
	acct, exists := s.accounts[clientID]
	if !exists {
		acct = &domain.Account{ClientID: clientID}
		s.accounts[clientID] = acct
	}

	return acct
}

func (s *Store) GetAccount(clientID uint16) (*domain.Account, bool) {
	acct, exists := s.accounts[clientID]
	return acct, exists
}

// InsertRecordIfAbsent stores rec under txID and reports whether the id was
// previously unused. An existing record is never overwritten.
func (s *Store) InsertRecordIfAbsent(txID uint32, rec domain.TransactionRecord) bool {
	if _, exists := s.records[txID]; exists {
		return false
	}

	s.records[txID] = &rec

	return true
}

func (s *Store) GetRecord(txID uint32) (*domain.TransactionRecord, bool) {
	rec, exists := s.records[txID]
	return rec, exists
}

// Accounts returns a copy of every known account. Iteration order is not
// significant; callers needing determinism sort the result.
func (s *Store) Accounts() []domain.Account {
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		accounts = append(accounts, *acct)
	}

	return accounts
}
