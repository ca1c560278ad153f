package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/grachmannico95/payment-engine/internal/domain"
)

// Write renders the final account snapshot as CSV. Rows are sorted by client
// id so the output is deterministic, and monetary fields carry the fixed
// four-digit precision.
func Write(w io.Writer, accounts []domain.Account) error {
	sorted := make([]domain.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ClientID < sorted[j].ClientID
	})

	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for i := range sorted {
		acct := &sorted[i]
		row := []string{
			strconv.FormatUint(uint64(acct.ClientID), 10),
			acct.Available.String(),
			acct.Held.String(),
			acct.Total().String(),
			strconv.FormatBool(acct.Locked),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}
