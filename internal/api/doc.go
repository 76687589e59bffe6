// Package api exposes the ledger replay as a small HTTP surface: a CSV-in,
// CSV-out replay endpoint plus a liveness probe.
package api
