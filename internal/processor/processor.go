package processor

import (
	"context"
	"runtime"
	"time"

	"github.com/grachmannico95/payment-engine/internal/domain"
	"github.com/grachmannico95/payment-engine/pkg/logger"
)

// EventQueue is the consumer side of the event pipeline. The processor only
// needs non-blocking dequeue plus the closed signal, so a multi-consumer
// queue can be swapped in later without touching the state machine.
type EventQueue interface {
	TryDequeue() (domain.TransactionEvent, bool)
	Closed() bool
}

// Stats counts the outcome of one processing run.
type Stats struct {
	Processed int
	Rejected  int
}

// Processor drains an event queue and applies each event to the ledger. It
// is the ledger's only writer while Run is executing.
type Processor struct {
	ledger    domain.Ledger
	logger    *logger.Logger
	idleSleep time.Duration
}

func New(ledger domain.Ledger, log *logger.Logger, idleSleep time.Duration) *Processor {
	return &Processor{
		ledger:    ledger,
		logger:    log,
		idleSleep: idleSleep,
	}
}

// Run consumes events until the queue is closed and fully drained, then
// returns the run's counters. Rejections never stop the stream; each one is
// logged and counted.
func (p *Processor) Run(ctx context.Context, queue EventQueue) Stats {
	p.logger.Info(ctx, "Processor started")

	var stats Stats
	for {
		ev, ok := queue.TryDequeue()
		if ok {
			p.apply(ctx, ev, &stats)
			continue
		}

		if queue.Closed() {
			// The close flag is set after the producer's final enqueue, so
			// anything published in the meantime is visible now. Drain and
			// stop on the first miss.
			for {
				ev, ok := queue.TryDequeue()
				if !ok {
					p.logger.Info(ctx, "Processor finished",
						"processed", stats.Processed,
						"rejected", stats.Rejected,
					)
					return stats
				}
				p.apply(ctx, ev, &stats)
			}
		}

		runtime.Gosched()
		if p.idleSleep > 0 {
			time.Sleep(p.idleSleep)
		}
	}
}

func (p *Processor) apply(ctx context.Context, ev domain.TransactionEvent, stats *Stats) {
	// Amounts are magnitudes; normalize in case a source let a sign through.
	ev.Amount = ev.Amount.Abs()

	var err error
	switch ev.Kind {
	case domain.EventKindDeposit:
		err = p.deposit(ev)
	case domain.EventKindWithdrawal:
		err = p.withdraw(ev)
	case domain.EventKindDispute:
		err = p.dispute(ev)
	case domain.EventKindResolve:
		err = p.resolve(ev)
	case domain.EventKindChargeback:
		err = p.chargeback(ev)
	default:
		err = domain.ErrInvalidEventKind
	}

	if err != nil {
		stats.Rejected++
		p.logger.Debug(ctx, "Event rejected",
			"kind", ev.Kind,
			"client", ev.ClientID,
			"tx", ev.TxID,
			"error", err,
		)
		return
	}

	stats.Processed++
}

func (p *Processor) deposit(ev domain.TransactionEvent) error {
	if _, exists := p.ledger.GetRecord(ev.TxID); exists {
		return domain.ErrDuplicateTransaction
	}

	acct := p.ledger.GetOrCreateAccount(ev.ClientID)
	if acct.Locked {
		return domain.ErrAccountLocked
	}

	available, err := acct.Available.Add(ev.Amount)
	if err != nil {
		return err
	}

	p.ledger.InsertRecordIfAbsent(ev.TxID, domain.TransactionRecord{
		ClientID: ev.ClientID,
		Kind:     domain.EventKindDeposit,
		Amount:   ev.Amount,
	})
	acct.Available = available

	return nil
}

func (p *Processor) withdraw(ev domain.TransactionEvent) error {
	if _, exists := p.ledger.GetRecord(ev.TxID); exists {
		return domain.ErrDuplicateTransaction
	}

	// Withdrawals never create accounts; an unseen client is a rejection.
	acct, exists := p.ledger.GetAccount(ev.ClientID)
	if !exists {
		return domain.ErrAccountNotFound
	}
	if acct.Locked {
		return domain.ErrAccountLocked
	}
	if ev.Amount > acct.Available {
		return domain.ErrInsufficientFunds
	}

	available, err := acct.Available.Sub(ev.Amount)
	if err != nil {
		return err
	}

	p.ledger.InsertRecordIfAbsent(ev.TxID, domain.TransactionRecord{
		ClientID: ev.ClientID,
		Kind:     domain.EventKindWithdrawal,
		Amount:   ev.Amount,
	})
	acct.Available = available

	return nil
}

// dispute moves the referenced amount from available to held, leaving total
// untouched until a resolve or chargeback settles it.
func (p *Processor) dispute(ev domain.TransactionEvent) error {
	rec, acct, err := p.referencedRecord(ev)
	if err != nil {
		return err
	}
	if rec.Disputed {
		return domain.ErrAlreadyDisputed
	}

	available, err := acct.Available.Sub(rec.Amount)
	if err != nil {
		return err
	}
	held, err := acct.Held.Add(rec.Amount)
	if err != nil {
		return err
	}

	acct.Available = available
	acct.Held = held
	rec.Disputed = true

	return nil
}

func (p *Processor) resolve(ev domain.TransactionEvent) error {
	rec, acct, err := p.referencedRecord(ev)
	if err != nil {
		return err
	}
	if !rec.Disputed {
		return domain.ErrNotDisputed
	}

	held, err := acct.Held.Sub(rec.Amount)
	if err != nil {
		return err
	}
	available, err := acct.Available.Add(rec.Amount)
	if err != nil {
		return err
	}

	acct.Held = held
	acct.Available = available
	rec.Disputed = false

	return nil
}

// chargeback removes the held amount for good and freezes the account
// against any further deposits or withdrawals.
func (p *Processor) chargeback(ev domain.TransactionEvent) error {
	rec, acct, err := p.referencedRecord(ev)
	if err != nil {
		return err
	}
	if !rec.Disputed {
		return domain.ErrNotDisputed
	}

	held, err := acct.Held.Sub(rec.Amount)
	if err != nil {
		return err
	}

	acct.Held = held
	acct.Locked = true
	rec.Disputed = false

	return nil
}

// referencedRecord resolves the record and account a dispute-family event
// points at. The record must exist and belong to the stated client.
func (p *Processor) referencedRecord(ev domain.TransactionEvent) (*domain.TransactionRecord, *domain.Account, error) {
	rec, exists := p.ledger.GetRecord(ev.TxID)
	if !exists {
		return nil, nil, domain.ErrTransactionNotFound
	}
	if rec.ClientID != ev.ClientID {
		return nil, nil, domain.ErrClientMismatch
	}

	acct, exists := p.ledger.GetAccount(rec.ClientID)
	if !exists {
		return nil, nil, domain.ErrAccountNotFound
	}

	return rec, acct, nil
}
