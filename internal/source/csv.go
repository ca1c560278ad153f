package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/grachmannico95/payment-engine/internal/domain"
	"github.com/grachmannico95/payment-engine/internal/money"
	"github.com/grachmannico95/payment-engine/pkg/logger"
	"github.com/grachmannico95/payment-engine/pkg/retry"
)

// EventQueue is the producer side of the event pipeline.
type EventQueue interface {
	Enqueue(ev domain.TransactionEvent) bool
	Close()
}

var errQueueFull = fmt.Errorf("event queue full")

// CSVSource reads transaction rows and feeds them into the event queue. It
// runs on its own goroutine as the pipeline's single producer.
type CSVSource struct {
	queue      EventQueue
	logger     *logger.Logger
	maxRetries int
	baseDelay  time.Duration
}

func NewCSVSource(queue EventQueue, log *logger.Logger, maxRetries int, baseDelay time.Duration) *CSVSource {
	return &CSVSource{
		queue:      queue,
		logger:     log,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// Run parses reader to exhaustion and closes the queue, exactly once, on the
// way out. Malformed rows are logged and skipped; only the enclosing reader
// failing mid-stream ends the run early, and even then the queue is closed
// so the consumer terminates cleanly.
func (s *CSVSource) Run(ctx context.Context, reader io.Reader) error {
	defer s.queue.Close()

	s.logger.Info(ctx, "Starting CSV source")

	csvReader := csv.NewReader(reader)
	csvReader.ReuseRecord = true // Optimize memory usage
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1 // dispute rows omit the amount column

	lineNumber := 0
	successCount := 0
	errorCount := 0

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.logger.Warn(ctx, "Failed to read CSV line",
				"line", lineNumber,
				"error", err,
			)
			errorCount++
			continue
		}

		lineNumber++

		if lineNumber == 1 && isHeader(record) {
			continue
		}

		ev, err := parseEvent(record)
		if err != nil {
			s.logger.Warn(ctx, "Failed to parse transaction",
				"line", lineNumber,
				"error", err,
			)
			errorCount++
			continue
		}

		if err := s.enqueue(ctx, ev); err != nil {
			s.logger.Error(ctx, "Failed to enqueue event",
				"line", lineNumber,
				"tx", ev.TxID,
				"error", err,
			)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errorCount++
			continue
		}

		successCount++
	}

	s.logger.Info(ctx, "CSV source completed",
		"total_lines", lineNumber,
		"success_count", successCount,
		"error_count", errorCount,
	)

	return nil
}

// enqueue retries with exponential backoff while the ring is full. The queue
// never drops events itself; after exhausted retries the row is dropped here,
// logged by the caller.
func (s *CSVSource) enqueue(ctx context.Context, ev domain.TransactionEvent) error {
	return retry.Do(ctx, func() error {
		if !s.queue.Enqueue(ev) {
			return errQueueFull
		}
		return nil
	},
		retry.WithMaxAttempts(s.maxRetries),
		retry.WithBaseDelay(s.baseDelay),
		retry.WithMaxDelay(100*s.baseDelay),
	)
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "type")
}

func parseEvent(record []string) (domain.TransactionEvent, error) {
	if len(record) < 3 || len(record) > 4 {
		return domain.TransactionEvent{}, fmt.Errorf("invalid record format: expected 3 or 4 fields, got %d", len(record))
	}

	kind, err := domain.ParseEventKind(strings.TrimSpace(record[0]))
	if err != nil {
		return domain.TransactionEvent{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 16)
	if err != nil {
		return domain.TransactionEvent{}, fmt.Errorf("invalid client id: %w", err)
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(record[2]), 10, 32)
	if err != nil {
		return domain.TransactionEvent{}, fmt.Errorf("invalid tx id: %w", err)
	}

	ev := domain.TransactionEvent{
		Kind:     kind,
		ClientID: uint16(client),
		TxID:     uint32(tx),
	}

	if kind.HasAmount() {
		if len(record) < 4 || strings.TrimSpace(record[3]) == "" {
			return domain.TransactionEvent{}, fmt.Errorf("%s requires an amount", kind)
		}
		amount, err := money.Parse(strings.TrimSpace(record[3]))
		if err != nil {
			return domain.TransactionEvent{}, fmt.Errorf("invalid amount: %w", err)
		}
		ev.Amount = amount
	}
	// Any amount column on dispute/resolve/chargeback rows is ignored.

	return ev, nil
}
