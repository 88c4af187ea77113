package database

import (
	"context"
	"fmt"

	"github.com/icodeforyou/barrywatch-go/convert"
	"github.com/icodeforyou/barrywatch-go/hours"
)

type ConsumptionRow struct {
	MPID string
	When hours.DateHour
	KWh  float64
}

func (d *Database) SaveConsumption(ctx context.Context, rows []ConsumptionRow) error {
	for _, row := range rows {
		_, err := d.write.ExecContext(ctx, `
			INSERT INTO consumption (mpid, date, hour, kwh) VALUES (?, ?, ?, ?)
			ON CONFLICT(mpid, date, hour) DO UPDATE SET kwh = excluded.kwh`,
			row.MPID,
			row.When.Date,
			row.When.Hour,
			convert.RoundFloat64(row.KWh, 4))
		if err != nil {
			return fmt.Errorf("saving consumption for %s at %s: %w", row.MPID, row.When, err)
		}
	}
	return nil
}

func (d *Database) GetConsumptionFrom(ctx context.Context, dh hours.DateHour) ([]ConsumptionRow, error) {
	rows, err := d.read.QueryContext(ctx, `SELECT
		mpid, date, hour, kwh
		FROM consumption
		WHERE (date = ? AND hour >= ?) OR date > ?
		ORDER BY mpid, date, hour ASC`,
		dh.Date, dh.Hour, dh.Date)
	if err != nil {
		return nil, fmt.Errorf("fetching consumption: %w", err)
	}
	defer rows.Close()

	var consumption []ConsumptionRow
	for rows.Next() {
		var c ConsumptionRow
		if err := rows.Scan(&c.MPID, &c.When.Date, &c.When.Hour, &c.KWh); err != nil {
			return nil, fmt.Errorf("scanning consumption row: %w", err)
		}
		consumption = append(consumption, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading consumption rows: %w", err)
	}

	return consumption, nil
}

func (d *Database) PurgeConsumption(ctx context.Context, retentionDays int) error {
	return d.purgeTable(ctx, "consumption", retentionDays)
}
