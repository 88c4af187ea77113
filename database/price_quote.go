package database

import (
	"context"
	"fmt"

	"github.com/icodeforyou/barrywatch-go/convert"
	"github.com/icodeforyou/barrywatch-go/hours"
)

type PriceQuoteRow struct {
	When     hours.DateHour
	MPID     int64
	Price    float64
	Currency string
}

func (d *Database) SavePriceQuote(ctx context.Context, row PriceQuoteRow) error {
	_, err := d.write.ExecContext(ctx, `
		INSERT INTO price_quote (date, hour, mpid, price, currency) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, hour, mpid) DO UPDATE SET price = excluded.price, currency = excluded.currency`,
		row.When.Date,
		row.When.Hour,
		row.MPID,
		convert.RoundFloat64(row.Price, 4),
		row.Currency)
	if err != nil {
		return fmt.Errorf("saving price quote for %s: %w", row.When, err)
	}
	return nil
}

func (d *Database) GetPriceQuoteForHour(ctx context.Context, mpid int64, dh hours.DateHour) (PriceQuoteRow, error) {
	row := d.read.QueryRowContext(ctx, `SELECT
		date, hour, mpid, price, currency
		FROM price_quote
		WHERE date = ? AND hour = ? AND mpid = ?`,
		dh.Date, dh.Hour, mpid)

	var pq PriceQuoteRow
	if err := row.Scan(&pq.When.Date, &pq.When.Hour, &pq.MPID, &pq.Price, &pq.Currency); err != nil {
		return PriceQuoteRow{}, fmt.Errorf("fetching price quote for %s: %w", dh, err)
	}

	return pq, nil
}

func (d *Database) GetPriceQuotesFrom(ctx context.Context, dh hours.DateHour) ([]PriceQuoteRow, error) {
	rows, err := d.read.QueryContext(ctx, `SELECT
		date, hour, mpid, price, currency
		FROM price_quote
		WHERE (date = ? AND hour >= ?) OR date > ?
		ORDER BY date, hour ASC`,
		dh.Date, dh.Hour, dh.Date)
	if err != nil {
		return nil, fmt.Errorf("fetching price quotes: %w", err)
	}
	defer rows.Close()

	var quotes []PriceQuoteRow
	for rows.Next() {
		var pq PriceQuoteRow
		if err := rows.Scan(&pq.When.Date, &pq.When.Hour, &pq.MPID, &pq.Price, &pq.Currency); err != nil {
			return nil, fmt.Errorf("scanning price quote row: %w", err)
		}
		quotes = append(quotes, pq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading price quote rows: %w", err)
	}

	return quotes, nil
}

func (d *Database) PurgePriceQuote(ctx context.Context, retentionDays int) error {
	return d.purgeTable(ctx, "price_quote", retentionDays)
}
