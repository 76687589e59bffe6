// Package ledgercsv is the CSV collaborator for the ledger core: it
// decodes `type,client,tx,amount` transaction rows into ledger entries and
// renders final account state as `client,available,held,total,locked`
// rows.
//
// Decoding is lenient about shape (per-field whitespace, case-insensitive
// type tags, absent or empty trailing amount column) but strict about
// structure: a malformed numeric field, unknown type tag, or missing
// required column fails the whole run with a *ParseError.
package ledgercsv
