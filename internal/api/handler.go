package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/j-n-f/payment-engine/ledger"
	"github.com/j-n-f/payment-engine/ledgercsv"
	"github.com/j-n-f/payment-engine/log"
)

// ErrorResponse is the JSON error payload shape.
type ErrorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Handler serves the replay endpoints.
type Handler struct {
	logger log.Logger
}

// NewHandler creates a Handler. A nil logger is replaced with a no-op
// logger.
func NewHandler(logger log.Logger) *Handler {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Handler{logger: logger}
}

// Health returns HTTP 200 with service status.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"requestDate": time.Now().UTC(),
	})
}

// Replay accepts a transactions CSV body, replays it through a fresh
// processor, and responds with the balance report CSV. Each request is
// tagged with a run id, echoed in the X-Run-Id header.
func (h *Handler) Replay(c *fiber.Ctx) error {
	runID := newRunID()
	c.Set("X-Run-Id", runID)

	logger := h.logger.With(log.String("run_id", runID))
	ctx := c.UserContext()

	processor := ledger.NewProcessor(logger)
	reader := ledgercsv.NewReader(bytes.NewReader(c.Body()))

	count, err := replay(ctx, processor, reader)
	if err != nil {
		var parseErr *ledgercsv.ParseError
		if errors.As(err, &parseErr) {
			logger.Log(ctx, log.LevelWarn, "replay rejected", log.Err(parseErr))

			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Code:    "invalid_transaction_data",
				Title:   "Invalid Transaction Data",
				Message: parseErr.Error(),
			})
		}

		logger.Log(ctx, log.LevelError, "replay failed", log.Err(err))

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    "replay_failed",
			Title:   "Replay Failed",
			Message: "could not process transaction data",
		})
	}

	var report bytes.Buffer
	if err := ledgercsv.NewWriter(&report).WriteAccounts(processor.Accounts()); err != nil {
		logger.Log(ctx, log.LevelError, "report rendering failed", log.Err(err))

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    "report_failed",
			Title:   "Report Failed",
			Message: "could not render balance report",
		})
	}

	logger.Log(ctx, log.LevelInfo, "replay completed",
		log.Int("entries", count),
		log.Int("clients", len(processor.Accounts())),
	)

	c.Set(fiber.HeaderContentType, "text/csv")

	return c.Send(report.Bytes())
}

func replay(ctx context.Context, processor *ledger.Processor, reader *ledgercsv.Reader) (int, error) {
	count := 0

	for {
		entry, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}

			return count, err
		}

		processor.Apply(ctx, entry)
		count++
	}
}

// newRunID returns a UUIDv7 run identifier, falling back to a random v4 if
// the clock-based generator fails.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
