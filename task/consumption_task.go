package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/icodeforyou/barrywatch-go/database"
	"github.com/icodeforyou/barrywatch-go/types"
)

func NewConsumptionTask(logger *slog.Logger, db *database.Database, provider types.ConsumptionProvider) func() {
	if provider == nil {
		panic("no consumption provider")
	}

	return func() {
		logger.Debug("running consumption task...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		records, err := provider.GetConsumption(ctx)
		if err != nil {
			logger.Error("consumption task error, fetching consumption", slog.Any("error", err))
			return
		}
		if len(records) == 0 {
			// Readings lag by a day or more, an empty window is normal.
			logger.Info("consumption task done, nothing reported yet")
			return
		}

		rows := make([]database.ConsumptionRow, len(records))
		for i, rec := range records {
			rows[i] = database.ConsumptionRow{MPID: rec.MPID, When: rec.Hour, KWh: rec.KWh}
		}

		if err := db.SaveConsumption(ctx, rows); err != nil {
			logger.Error("consumption task error", slog.Any("error", err))
			return
		}

		logger.Info("consumption task done", slog.Int("noOfRowsUpdated", len(rows)))
	}
}
