package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/icodeforyou/barrywatch-go/database"
	"github.com/icodeforyou/barrywatch-go/types"
)

// NewPriceQuoteTask stores the blended kWh price for the hour the task runs
// in. The quote endpoint only answers for a single hour at a time, so this is
// scheduled hourly rather than fetched in ranges.
func NewPriceQuoteTask(logger *slog.Logger, db *database.Database, provider types.PriceQuoteProvider) func() {
	return func() {
		logger.Debug("running price quote task...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		quote, err := provider.GetPriceQuote(ctx)
		if err != nil {
			logger.Error("price quote task error, fetching quote", slog.Any("error", err))
			return
		}

		row := database.PriceQuoteRow{
			When:     quote.Hour,
			MPID:     quote.MPID,
			Price:    quote.Price,
			Currency: quote.Currency,
		}
		if err := db.SavePriceQuote(ctx, row); err != nil {
			logger.Error("price quote task error", slog.Any("error", err))
			return
		}

		logger.Info("price quote task done",
			slog.String("hour", quote.Hour.String()),
			slog.Float64("price", quote.Price),
			slog.String("currency", quote.Currency))
	}
}
