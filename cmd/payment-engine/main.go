// Command payment-engine replays a transaction log CSV and reports final
// per-client balances.
//
// Usage:
//
//	payment-engine <transactions.csv>   replay a file, balances on stdout
//	payment-engine serve [-addr :3000]  run the HTTP replay endpoint
//
// Exit status is 0 on success, 2 for a missing or unreadable input path
// (before any processing), and 1 for any parse or write failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/j-n-f/payment-engine/internal/api"
	"github.com/j-n-f/payment-engine/ledger"
	"github.com/j-n-f/payment-engine/ledgercsv"
	"github.com/j-n-f/payment-engine/log"
	"github.com/j-n-f/payment-engine/zaplog"
)

const (
	exitFailure = 1
	exitUsage   = 2

	defaultServeAddress = ":3000"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger, err := buildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error configuring logger: %v\n", err)
		return exitFailure
	}

	defer func() {
		_ = logger.Sync(context.Background())
	}()

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "expected path to transactions CSV as first argument, aborting")
		return exitUsage
	}

	if args[0] == "serve" {
		return serve(logger, args[1:])
	}

	return replayFile(logger, args[0])
}

func replayFile(logger log.Logger, path string) int {
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't read transactions CSV: %s\n", path)
		return exitUsage
	}

	defer file.Close()

	ctx := context.Background()
	processor := ledger.NewProcessor(logger)
	reader := ledgercsv.NewReader(file)

	for {
		entry, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			fmt.Fprintf(os.Stderr, "error handling transaction data: %v\n", err)

			return exitFailure
		}

		processor.Apply(ctx, entry)
	}

	if err := ledgercsv.NewWriter(os.Stdout).WriteAccounts(processor.Accounts()); err != nil {
		fmt.Fprintf(os.Stderr, "error writing client account states: %v\n", err)
		return exitFailure
	}

	return 0
}

func serve(logger log.Logger, args []string) int {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	address := flags.String("addr", defaultServeAddress, "listen address")

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if err := api.Serve(logger, *address); err != nil {
		fmt.Fprintf(os.Stderr, "error running server: %v\n", err)
		return exitFailure
	}

	return 0
}

func buildLogger() (log.Logger, error) {
	logger, _, err := zaplog.New(zaplog.Config{
		Environment: zaplog.Environment(getenvOrDefault("ENV_NAME", string(zaplog.EnvironmentLocal))),
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "payment-engine",
	})
	if err != nil {
		return nil, err
	}

	return logger, nil
}

func getenvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
