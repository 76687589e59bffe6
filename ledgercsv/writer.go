package ledgercsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/j-n-f/payment-engine/ledger"
)

// outputHeader is the balance report column layout.
var outputHeader = []string{"client", "available", "held", "total", "locked"}

// Writer renders final account state as balance rows. Row order is
// unspecified; the open-dispute bookkeeping inside accounts is never
// rendered.
type Writer struct {
	csv *csv.Writer
}

// NewWriter wraps w in a balance-report encoder.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteAccounts renders the header followed by one row per account.
func (w *Writer) WriteAccounts(accounts map[uint16]ledger.Account) error {
	if err := w.csv.Write(outputHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, account := range accounts {
		record := []string{
			strconv.FormatUint(uint64(account.ClientID), 10),
			account.Available.String(),
			account.Held.String(),
			account.Total.String(),
			strconv.FormatBool(account.Locked),
		}

		if err := w.csv.Write(record); err != nil {
			return fmt.Errorf("write account %d: %w", account.ClientID, err)
		}
	}

	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush balance report: %w", err)
	}

	return nil
}
