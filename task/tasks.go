package task

import (
	"context"
	"log/slog"

	"github.com/icodeforyou/barrywatch-go/config"
	"github.com/icodeforyou/barrywatch-go/database"
	"github.com/icodeforyou/barrywatch-go/types"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	EnergyPriceTask func()
	ConsumptionTask func()
	PriceQuoteTask  func()
	MaintenanceTask func()
}

func NewTasks(
	db *database.Database,
	priceProvider types.EnergyPriceProvider,
	consumptionProvider types.ConsumptionProvider,
	quoteProvider types.PriceQuoteProvider,
	cnfg *config.AppConfig,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	t := &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		EnergyPriceTask: NewEnergyPriceTask(logger.With(slog.String("task", "energy_price")), db, priceProvider, cnfg.Barry.Area),
		ConsumptionTask: NewConsumptionTask(logger.With(slog.String("task", "consumption")), db, consumptionProvider),
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg),
	}
	// Quotes need a configured metering point.
	if quoteProvider != nil {
		t.PriceQuoteTask = NewPriceQuoteTask(logger.With(slog.String("task", "price_quote")), db, quoteProvider)
	}
	return t
}

func (t *Tasks) Run() {
	if _, err := t.cron.AddFunc(t.cnfg.Barry.RunAt, t.EnergyPriceTask); err != nil {
		panic(err)
	}
	if _, err := t.cron.AddFunc(t.cnfg.Consumption.RunAt, t.ConsumptionTask); err != nil {
		panic(err)
	}
	if t.PriceQuoteTask != nil {
		if _, err := t.cron.AddFunc(t.cnfg.Quote.RunAt, t.PriceQuoteTask); err != nil {
			panic(err)
		}
	}
	if _, err := t.cron.AddFunc("30 2 * * *", t.MaintenanceTask); err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
