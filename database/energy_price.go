package database

import (
	"context"
	"fmt"

	"github.com/icodeforyou/barrywatch-go/convert"
	"github.com/icodeforyou/barrywatch-go/hours"
)

type EnergyPriceRow struct {
	When  hours.DateHour
	Area  string
	Price float64
}

func (d *Database) SaveEnergyPrices(ctx context.Context, rows []EnergyPriceRow) error {
	for _, row := range rows {
		_, err := d.write.ExecContext(ctx, `
			INSERT INTO energy_price (date, hour, area, price) VALUES (?, ?, ?, ?)
			ON CONFLICT(date, hour, area) DO UPDATE SET price = excluded.price`,
			row.When.Date,
			row.When.Hour,
			row.Area,
			convert.RoundFloat64(row.Price, 4))
		if err != nil {
			return fmt.Errorf("saving energy price for %s: %w", row.When, err)
		}
	}
	return nil
}

func (d *Database) GetEnergyPriceForHour(ctx context.Context, area string, dh hours.DateHour) (EnergyPriceRow, error) {
	row := d.read.QueryRowContext(ctx, `SELECT
		date, hour, area, price
		FROM energy_price
		WHERE date = ? AND hour = ? AND area = ?`,
		dh.Date, dh.Hour, area)

	var ep EnergyPriceRow
	if err := row.Scan(&ep.When.Date, &ep.When.Hour, &ep.Area, &ep.Price); err != nil {
		return EnergyPriceRow{}, fmt.Errorf("fetching energy price for %s: %w", dh, err)
	}

	return ep, nil
}

func (d *Database) GetEnergyPricesFrom(ctx context.Context, area string, dh hours.DateHour) ([]EnergyPriceRow, error) {
	rows, err := d.read.QueryContext(ctx, `SELECT
		date, hour, area, price
		FROM energy_price
		WHERE ((date = ? AND hour >= ?) OR date > ?) AND area = ?
		ORDER BY date, hour ASC`,
		dh.Date, dh.Hour, dh.Date, area)
	if err != nil {
		return nil, fmt.Errorf("fetching energy prices: %w", err)
	}
	defer rows.Close()

	var energyPrices []EnergyPriceRow
	for rows.Next() {
		var ep EnergyPriceRow
		if err := rows.Scan(&ep.When.Date, &ep.When.Hour, &ep.Area, &ep.Price); err != nil {
			return nil, fmt.Errorf("scanning energy price row: %w", err)
		}
		energyPrices = append(energyPrices, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading energy price rows: %w", err)
	}

	return energyPrices, nil
}

func (d *Database) PurgeEnergyPrice(ctx context.Context, retentionDays int) error {
	return d.purgeTable(ctx, "energy_price", retentionDays)
}
