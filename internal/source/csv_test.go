package source

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/grachmannico95/payment-engine/internal/domain"
	"github.com/grachmannico95/payment-engine/internal/money"
	"github.com/grachmannico95/payment-engine/internal/queue"
	"github.com/grachmannico95/payment-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, q *queue.SPSC) []domain.TransactionEvent {
	t.Helper()

	var events []domain.TransactionEvent
	for {
		ev, ok := q.TryDequeue()
		if !ok {
			return events
		}
		events = append(events, ev)
	}
}

func runSource(t *testing.T, input string) []domain.TransactionEvent {
	t.Helper()

	q := queue.New(256)
	src := NewCSVSource(q, logger.NewNop(), 3, time.Millisecond)

	err := src.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.True(t, q.Closed(), "source must close the queue when done")

	return drain(t, q)
}

func TestRun_ParsesAllKinds(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,5.0
withdrawal,1,2,1.5
dispute,1,1,
resolve,1,1,
chargeback,1,1,
`

	events := runSource(t, input)
	require.Len(t, events, 5)

	assert.Equal(t, domain.TransactionEvent{
		Kind: domain.EventKindDeposit, ClientID: 1, TxID: 1, Amount: money.FromUnits(5),
	}, events[0])
	assert.Equal(t, domain.TransactionEvent{
		Kind: domain.EventKindWithdrawal, ClientID: 1, TxID: 2, Amount: money.Amount(15000),
	}, events[1])
	assert.Equal(t, domain.EventKindDispute, events[2].Kind)
	assert.Equal(t, domain.EventKindResolve, events[3].Kind)
	assert.Equal(t, domain.EventKindChargeback, events[4].Kind)
	assert.Equal(t, money.Amount(0), events[2].Amount)
}

func TestRun_ToleratesWhitespace(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit,  1,  1,  2.5\n" +
		" dispute , 1 , 1\n"

	events := runSource(t, input)
	require.Len(t, events, 2)
	assert.Equal(t, money.Amount(25000), events[0].Amount)
	assert.Equal(t, domain.EventKindDispute, events[1].Kind)
}

func TestRun_SkipsMalformedRows(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,5.0
transfer,1,2,1.0
deposit,abc,3,1.0
deposit,1,xyz,1.0
deposit,1,4,not-money
deposit,1,5
withdrawal,1,6,2.0
`

	events := runSource(t, input)
	require.Len(t, events, 2)
	assert.Equal(t, uint32(1), events[0].TxID)
	assert.Equal(t, uint32(6), events[1].TxID)
}

func TestRun_DisputeRowsWithoutAmountColumn(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,5.0
dispute,1,1
`

	events := runSource(t, input)
	require.Len(t, events, 2)
}

func TestRun_NoHeader(t *testing.T) {
	// A stream without a header row is still consumed; the first row simply
	// does not look like one.
	input := "deposit,1,1,5.0\n"

	events := runSource(t, input)
	require.Len(t, events, 1)
	assert.Equal(t, uint32(1), events[0].TxID)
}

func TestRun_EmptyInput(t *testing.T) {
	events := runSource(t, "")
	assert.Empty(t, events)
}

func TestRun_ClosesQueueOnCancelledContext(t *testing.T) {
	// A 2-slot ring that nobody drains: the producer's retries run out and
	// eventually the cancelled context stops the run.
	q := queue.New(2)
	src := NewCSVSource(q, logger.NewNop(), 2, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "deposit,1,1,1\ndeposit,1,2,1\ndeposit,1,3,1\ndeposit,1,4,1\n"
	_ = src.Run(ctx, strings.NewReader(input))

	assert.True(t, q.Closed())
}
