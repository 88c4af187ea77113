package task

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/icodeforyou/barrywatch-go/database"
	"github.com/icodeforyou/barrywatch-go/hours"
	"github.com/icodeforyou/barrywatch-go/types"
)

type fakePriceProvider struct {
	prices []types.EnergyPrice
	err    error
	calls  int
}

func (f *fakePriceProvider) GetEnergyPrices(ctx context.Context) ([]types.EnergyPrice, error) {
	f.calls++
	return f.prices, f.err
}

func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestEnergyPriceTaskStoresRows(t *testing.T) {
	db := newTestDB(t)
	midnight := hours.FromMidnight()

	provider := &fakePriceProvider{prices: []types.EnergyPrice{
		{Hour: midnight, Price: 1.25},
		{Hour: midnight.Add(1), Price: 1.5},
	}}

	// A fresh database has no price for the coming hour, so the
	// constructor itself triggers an immediate run.
	run := NewEnergyPriceTask(slog.Default(), db, provider, "DK_NORDPOOL_SPOT_DK1")
	if provider.calls == 0 {
		t.Fatal("expected an immediate update on an empty database")
	}

	run()

	rows, err := db.GetEnergyPricesFrom(context.Background(), "DK_NORDPOOL_SPOT_DK1", midnight)
	if err != nil {
		t.Fatalf("reading back prices: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Price != 1.25 || rows[1].Price != 1.5 {
		t.Errorf("unexpected prices: %+v", rows)
	}
	if rows[0].Area != "DK_NORDPOOL_SPOT_DK1" {
		t.Errorf("unexpected area: %q", rows[0].Area)
	}
}

func TestEnergyPriceTaskKeepsOldRowsOnError(t *testing.T) {
	db := newTestDB(t)
	midnight := hours.FromMidnight()

	provider := &fakePriceProvider{prices: []types.EnergyPrice{{Hour: midnight, Price: 2.0}}}
	run := NewEnergyPriceTask(slog.Default(), db, provider, "FR_EPEX_SPOT_FR")
	run()

	provider.err = errors.New("service down")
	run()

	rows, err := db.GetEnergyPricesFrom(context.Background(), "FR_EPEX_SPOT_FR", midnight)
	if err != nil {
		t.Fatalf("reading back prices: %v", err)
	}
	if len(rows) != 1 || rows[0].Price != 2.0 {
		t.Fatalf("expected the stored row to survive a failed fetch, got %+v", rows)
	}
}

func TestConsumptionTaskGroupsByMeteringPoint(t *testing.T) {
	db := newTestDB(t)
	midnight := hours.FromMidnight()

	provider := &fakeConsumptionProvider{records: []types.ConsumptionRecord{
		{MPID: "A", Hour: midnight, KWh: 0.5},
		{MPID: "A", Hour: midnight.Add(1), KWh: 0.75},
		{MPID: "B", Hour: midnight, KWh: 1.5},
	}}

	run := NewConsumptionTask(slog.Default(), db, provider)
	run()

	rows, err := db.GetConsumptionFrom(context.Background(), midnight)
	if err != nil {
		t.Fatalf("reading back consumption: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

type fakeConsumptionProvider struct {
	records []types.ConsumptionRecord
}

func (f *fakeConsumptionProvider) GetConsumption(ctx context.Context) ([]types.ConsumptionRecord, error) {
	return f.records, nil
}
