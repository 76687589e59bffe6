package ledgercsv

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-n-f/payment-engine/ledger"
)

// parseReport decodes a rendered balance report into rows keyed by client,
// since row order is unspecified.
func parseReport(t *testing.T, report string) map[string][]string {
	t.Helper()

	records, err := csv.NewReader(strings.NewReader(report)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	require.Equal(t, []string{"client", "available", "held", "total", "locked"}, records[0])

	rows := make(map[string][]string, len(records)-1)
	for _, record := range records[1:] {
		require.Len(t, record, 5)
		rows[record[0]] = record
	}

	return rows
}

func TestWriter_RendersAccounts(t *testing.T) {
	t.Parallel()

	processor := ledger.NewProcessor(nil)
	processor.Process(context.Background(), []ledger.Entry{
		ledger.Deposit{ClientID: 1, TxID: 1, Amount: decimal.RequireFromString("1.5")},
		ledger.Deposit{ClientID: 2, TxID: 2, Amount: decimal.RequireFromString("2.0")},
		ledger.Dispute{ClientID: 2, TxID: 2},
		ledger.Chargeback{ClientID: 2, TxID: 2},
	})

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteAccounts(processor.Accounts()))

	rows := parseReport(t, buf.String())
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"1", "1.5", "0", "1.5", "false"}, rows["1"])
	assert.Equal(t, []string{"2", "0", "0", "0", "true"}, rows["2"])
}

func TestWriter_EmptyAccountMapRendersHeaderOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteAccounts(nil))

	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}

func TestWriter_NeverRendersDisputeState(t *testing.T) {
	t.Parallel()

	processor := ledger.NewProcessor(nil)
	processor.Process(context.Background(), []ledger.Entry{
		ledger.Deposit{ClientID: 1, TxID: 1, Amount: decimal.RequireFromString("1.0")},
		ledger.Dispute{ClientID: 1, TxID: 1},
	})

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteAccounts(processor.Accounts()))

	rows := parseReport(t, buf.String())
	assert.Equal(t, []string{"1", "0", "1", "1", "false"}, rows["1"])
}
