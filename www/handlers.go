package www

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/icodeforyou/barrywatch-go/database"
	"github.com/icodeforyou/barrywatch-go/hours"
	"github.com/icodeforyou/barrywatch-go/logging"
)

type energyPriceDTO struct {
	Hour      string  `json:"hour"`
	LocalHour string  `json:"local_hour"`
	Area      string  `json:"area"`
	Price     float64 `json:"price"`
}

type consumptionDTO struct {
	MPID string  `json:"mpid"`
	Hour string  `json:"hour"`
	KWh  float64 `json:"kwh"`
}

type priceQuoteDTO struct {
	Hour     string  `json:"hour"`
	MPID     int64   `json:"mpid"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type logEntryDTO struct {
	Timestamp string `json:"timestamp"`
	Level     int    `json:"level"`
	Message   string `json:"message"`
	Attrs     string `json:"attrs,omitempty"`
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response failed", slog.Any("error", err))
	}
}

// fromOrMidnight reads the "from" query param (RFC3339), defaulting to
// midnight of the current UTC day.
func fromOrMidnight(u *url.URL) hours.DateHour {
	if v := u.Query().Get("from"); v != "" {
		if dh := hours.FromIso(v); !dh.IsZero() {
			return dh
		}
	}
	return hours.FromMidnight()
}

func intOrDefault(u *url.URL, key string, defaultValue int) int {
	if v := u.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func NewEnergyPriceHandler(logger *slog.Logger, db *database.Database, area string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.GetEnergyPricesFrom(r.Context(), area, fromOrMidnight(r.URL))
		if err != nil {
			logger.Error("fetching energy prices failed", slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		dtos := make([]energyPriceDTO, len(rows))
		for i, row := range rows {
			dtos[i] = energyPriceDTO{
				Hour:      row.When.IsoString(),
				LocalHour: row.When.LocalizedString(),
				Area:      row.Area,
				Price:     row.Price,
			}
		}
		writeJSON(logger, w, dtos)
	})
}

func NewConsumptionHandler(logger *slog.Logger, db *database.Database) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.GetConsumptionFrom(r.Context(), fromOrMidnight(r.URL))
		if err != nil {
			logger.Error("fetching consumption failed", slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		dtos := make([]consumptionDTO, len(rows))
		for i, row := range rows {
			dtos[i] = consumptionDTO{MPID: row.MPID, Hour: row.When.IsoString(), KWh: row.KWh}
		}
		writeJSON(logger, w, dtos)
	})
}

func NewPriceQuoteHandler(logger *slog.Logger, db *database.Database) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.GetPriceQuotesFrom(r.Context(), fromOrMidnight(r.URL))
		if err != nil {
			logger.Error("fetching price quotes failed", slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		dtos := make([]priceQuoteDTO, len(rows))
		for i, row := range rows {
			dtos[i] = priceQuoteDTO{Hour: row.When.IsoString(), MPID: row.MPID, Price: row.Price, Currency: row.Currency}
		}
		writeJSON(logger, w, dtos)
	})
}

func NewLogHandler(logger *slog.Logger, db *database.Database) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lvlStr := r.URL.Query().Get("min_level")
		var lvlPtr *string
		if lvlStr != "" {
			lvlPtr = &lvlStr
		}

		entries, err := db.GetLogEntries(r.Context(),
			logging.LevelFromString(lvlPtr),
			intOrDefault(r.URL, "page", 1),
			intOrDefault(r.URL, "page_size", 50))
		if err != nil {
			logger.Error("fetching log entries failed", slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		dtos := make([]logEntryDTO, len(entries))
		for i, e := range entries {
			dtos[i] = logEntryDTO{
				Timestamp: e.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
				Level:     e.Level,
				Message:   e.Message,
				Attrs:     e.Attrs,
			}
		}
		writeJSON(logger, w, dtos)
	})
}
