package ledger

import (
	"testing"

	"github.com/grachmannico95/payment-engine/internal/domain"
	"github.com/grachmannico95/payment-engine/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateAccount(t *testing.T) {
	store := NewStore()

	acct := store.GetOrCreateAccount(1)
	require.NotNil(t, acct)
	assert.Equal(t, uint16(1), acct.ClientID)
	assert.Equal(t, money.Amount(0), acct.Available)
	assert.Equal(t, money.Amount(0), acct.Held)
	assert.False(t, acct.Locked)

	// Second call returns the same instance, not a fresh account.
	acct.Available = money.FromUnits(10)
	again := store.GetOrCreateAccount(1)
	assert.Same(t, acct, again)
	assert.Equal(t, money.FromUnits(10), again.Available)
}

func TestGetAccount_UnknownClient(t *testing.T) {
	store := NewStore()

	_, exists := store.GetAccount(42)
	assert.False(t, exists)

	store.GetOrCreateAccount(42)
	acct, exists := store.GetAccount(42)
	assert.True(t, exists)
	assert.Equal(t, uint16(42), acct.ClientID)
}

func TestInsertRecordIfAbsent(t *testing.T) {
	store := NewStore()

	rec := domain.TransactionRecord{
		ClientID: 1,
		Kind:     domain.EventKindDeposit,
		Amount:   money.FromUnits(100),
	}

	assert.True(t, store.InsertRecordIfAbsent(7, rec))

	// A duplicate id is rejected and the original record kept.
	dup := domain.TransactionRecord{
		ClientID: 2,
		Kind:     domain.EventKindWithdrawal,
		Amount:   money.FromUnits(999),
	}
	assert.False(t, store.InsertRecordIfAbsent(7, dup))

	got, exists := store.GetRecord(7)
	require.True(t, exists)
	assert.Equal(t, uint16(1), got.ClientID)
	assert.Equal(t, money.FromUnits(100), got.Amount)
}

func TestGetRecord_MutationSticks(t *testing.T) {
	store := NewStore()

	store.InsertRecordIfAbsent(1, domain.TransactionRecord{
		ClientID: 1,
		Kind:     domain.EventKindDeposit,
		Amount:   money.FromUnits(5),
	})

	rec, exists := store.GetRecord(1)
	require.True(t, exists)
	rec.Disputed = true

	again, _ := store.GetRecord(1)
	assert.True(t, again.Disputed)
}

func TestAccounts_Snapshot(t *testing.T) {
	store := NewStore()

	store.GetOrCreateAccount(1).Available = money.FromUnits(3)
	store.GetOrCreateAccount(2).Held = money.FromUnits(4)

	accounts := store.Accounts()
	require.Len(t, accounts, 2)

	// The snapshot is a copy: mutating it must not touch the store.
	for i := range accounts {
		accounts[i].Available = money.FromUnits(999)
	}
	acct, _ := store.GetAccount(1)
	assert.Equal(t, money.FromUnits(3), acct.Available)
}
