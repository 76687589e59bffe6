package ledgercsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/j-n-f/payment-engine/ledger"
)

// ParseError reports a structurally invalid header or row. It is fatal for
// the run; business-rule violations never surface here.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

// Error returns the formatted parse error string.
func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}

	return fmt.Sprintf("line %d: field %q: %v", e.Line, e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errMissingHeader  = errors.New("missing header row")
	errBadHeader      = errors.New("header must name columns type, client, tx")
	errMissingField   = errors.New("missing required field")
	errUnknownKind    = errors.New("unknown transaction type")
	errInvalidNumber  = errors.New("invalid numeric value")
	errInvalidDecimal = errors.New("invalid decimal amount")
)

// headerColumns is the required leading header shape. The amount column is
// optional because dispute-family rows may omit it entirely.
var headerColumns = []string{"type", "client", "tx"}

// Reader decodes transaction rows into ledger entries.
//
// The header row is consumed and validated on the first Read. Rows may
// carry leading/trailing whitespace per field, type tags are
// case-insensitive, and the amount column may be empty or missing. Amounts
// on dispute, resolve, and chargeback rows are ignored.
type Reader struct {
	csv        *csv.Reader
	line       int
	headerRead bool
}

// NewReader wraps r in a transaction-row decoder.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &Reader{csv: cr}
}

// Read decodes the next transaction row. It returns io.EOF once the input
// is exhausted and a *ParseError for any structural failure.
func (r *Reader) Read() (ledger.Entry, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return nil, err
		}
	}

	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, &ParseError{Line: r.line + 1, Err: err}
	}

	r.line++

	return r.decode(record)
}

// ReadAll decodes every remaining row.
func (r *Reader) ReadAll() ([]ledger.Entry, error) {
	var entries []ledger.Entry

	for {
		entry, err := r.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}

		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}
}

func (r *Reader) readHeader() error {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &ParseError{Line: 1, Err: errMissingHeader}
		}

		return &ParseError{Line: 1, Err: err}
	}

	r.line = 1
	r.headerRead = true

	if len(record) < len(headerColumns) {
		return &ParseError{Line: 1, Err: errBadHeader}
	}

	for i, want := range headerColumns {
		if !strings.EqualFold(strings.TrimSpace(record[i]), want) {
			return &ParseError{Line: 1, Field: want, Err: errBadHeader}
		}
	}

	return nil
}

func (r *Reader) decode(record []string) (ledger.Entry, error) {
	if len(record) < 3 {
		return nil, &ParseError{Line: r.line, Err: errMissingField}
	}

	kindTag := strings.TrimSpace(record[0])
	if kindTag == "" {
		return nil, &ParseError{Line: r.line, Field: "type", Err: errMissingField}
	}

	kind, ok := ledger.ParseKind(kindTag)
	if !ok {
		return nil, &ParseError{
			Line:  r.line,
			Field: "type",
			Err:   fmt.Errorf("%w: %q", errUnknownKind, kindTag),
		}
	}

	clientID, err := r.parseUint(record[1], "client", 16)
	if err != nil {
		return nil, err
	}

	txID, err := r.parseUint(record[2], "tx", 32)
	if err != nil {
		return nil, err
	}

	switch kind {
	case ledger.KindDeposit, ledger.KindWithdrawal:
		amount, err := r.parseAmount(record)
		if err != nil {
			return nil, err
		}

		if kind == ledger.KindDeposit {
			return ledger.Deposit{ClientID: uint16(clientID), TxID: uint32(txID), Amount: amount}, nil
		}

		return ledger.Withdrawal{ClientID: uint16(clientID), TxID: uint32(txID), Amount: amount}, nil
	case ledger.KindDispute:
		return ledger.Dispute{ClientID: uint16(clientID), TxID: uint32(txID)}, nil
	case ledger.KindResolve:
		return ledger.Resolve{ClientID: uint16(clientID), TxID: uint32(txID)}, nil
	default:
		return ledger.Chargeback{ClientID: uint16(clientID), TxID: uint32(txID)}, nil
	}
}

func (r *Reader) parseUint(raw, field string, bits int) (uint64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &ParseError{Line: r.line, Field: field, Err: errMissingField}
	}

	value, err := strconv.ParseUint(trimmed, 10, bits)
	if err != nil {
		return 0, &ParseError{
			Line:  r.line,
			Field: field,
			Err:   fmt.Errorf("%w: %q", errInvalidNumber, trimmed),
		}
	}

	return value, nil
}

// parseAmount reads the optional amount column. An absent column or empty
// value decodes as zero; the resulting entry then has no balance effect
// but is still indexed as disputable by the processor.
func (r *Reader) parseAmount(record []string) (decimal.Decimal, error) {
	if len(record) < 4 {
		return decimal.Zero, nil
	}

	trimmed := strings.TrimSpace(record[3])
	if trimmed == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, &ParseError{
			Line:  r.line,
			Field: "amount",
			Err:   fmt.Errorf("%w: %q", errInvalidDecimal, trimmed),
		}
	}

	return amount, nil
}
