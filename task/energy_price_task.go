package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/icodeforyou/barrywatch-go/database"
	"github.com/icodeforyou/barrywatch-go/hours"
	"github.com/icodeforyou/barrywatch-go/types"
)

func NewEnergyPriceTask(logger *slog.Logger, db *database.Database, provider types.EnergyPriceProvider, area string) func() {
	if provider == nil {
		panic("no energy price provider")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if needImmediateEnergyPriceUpdate(ctx, db, area) {
		logger.Info("need an immediate update of energy prices")
		runEnergyPriceTask(logger, db, provider, area)
	} else {
		logger.Debug("no need for immediate update of energy prices")
	}

	return func() { runEnergyPriceTask(logger, db, provider, area) }
}

func runEnergyPriceTask(logger *slog.Logger, db *database.Database, provider types.EnergyPriceProvider, area string) {
	logger.Debug("running energy price task...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prices, err := provider.GetEnergyPrices(ctx)
	if err != nil {
		logger.Error("energy price task error, fetching spot prices", slog.Any("error", err))
		return
	}
	if len(prices) == 0 {
		logger.Error("energy price task error, no prices fetched")
		return
	}

	rows := make([]database.EnergyPriceRow, len(prices))
	for i, ep := range prices {
		logger.Debug("energy price", slog.String("hour", ep.Hour.String()), slog.Float64("price", ep.Price))
		rows[i] = database.EnergyPriceRow{When: ep.Hour, Area: area, Price: ep.Price}
	}

	if err := db.SaveEnergyPrices(ctx, rows); err != nil {
		logger.Error("energy price task error", slog.Any("error", err))
		return
	}

	logger.Info("energy price task done", slog.Int("noOfHoursUpdated", len(rows)))
}

// needImmediateEnergyPriceUpdate is true when we have no price stored for a
// coming hour, which happens on first start and after downtime.
func needImmediateEnergyPriceUpdate(ctx context.Context, db *database.Database, area string) bool {
	dh := hours.FromNow().Add(1)
	if _, err := db.GetEnergyPriceForHour(ctx, area, dh); err != nil {
		return true
	}
	return false
}
