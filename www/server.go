package www

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/icodeforyou/barrywatch-go/config"
	"github.com/icodeforyou/barrywatch-go/database"
	"github.com/icodeforyou/barrywatch-go/hours"
)

type Server struct {
	logger *slog.Logger
	cnfg   *config.AppConfig
	db     *database.Database
	hub    *Hub
	mux    *http.ServeMux
}

func StartServer(db *database.Database, cnfg *config.AppConfig) *Server {
	logger := slog.Default().With("module", "www")

	s := &Server{
		logger: logger,
		cnfg:   cnfg,
		db:     db,
		hub:    NewHub(logger),
		mux:    http.NewServeMux(),
	}

	go s.hub.Run()

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	s.mux.Handle("/energy_price", logReqMW(NewEnergyPriceHandler(
		logger.With(slog.String("handler", "energy_price")), db, cnfg.Barry.Area)))

	s.mux.Handle("/consumption", logReqMW(NewConsumptionHandler(
		logger.With(slog.String("handler", "consumption")), db)))

	s.mux.Handle("/price_quote", logReqMW(NewPriceQuoteHandler(
		logger.With(slog.String("handler", "price_quote")), db)))

	s.mux.Handle("/log", logReqMW(NewLogHandler(
		logger.With(slog.String("handler", "log")), db)))

	s.mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register <- client
		go client.WritePump()
	})

	return s
}

// currentHour is the snapshot pushed to websocket clients: the spot price and
// blended quote for the hour we are in right now. Absent values mean the
// collector has not stored that hour yet.
type currentHour struct {
	Hour      string   `json:"hour"`
	SpotPrice *float64 `json:"spotPrice,omitempty"`
	KWhPrice  *float64 `json:"kwhPrice,omitempty"`
	Currency  string   `json:"currency,omitempty"`
}

func (s *Server) snapshot(ctx context.Context) currentHour {
	now := hours.FromNow()
	snap := currentHour{Hour: now.IsoString()}

	if ep, err := s.db.GetEnergyPriceForHour(ctx, s.cnfg.Barry.Area, now); err == nil {
		snap.SpotPrice = &ep.Price
	}
	if s.cnfg.Barry.MeteringPoint != 0 {
		if pq, err := s.db.GetPriceQuoteForHour(ctx, s.cnfg.Barry.MeteringPoint, now); err == nil {
			snap.KWhPrice = &pq.Price
			snap.Currency = pq.Currency
		}
	}

	return snap
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("starting server...", "port", s.cnfg.Api.Port)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cnfg.Api.Address, s.cnfg.Api.Port),
		Handler: s.mux,
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	ticker := time.NewTicker(time.Second * 10)
	defer ticker.Stop()

	for {
		select {
		case err := <-srvErrors:
			if err != nil {
				s.logger.Error("server error", slog.Any("error", err))
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return

		case <-ticker.C:
			msg, err := json.Marshal(s.snapshot(ctx))
			if err != nil {
				s.logger.Error("marshalling snapshot failed", slog.Any("error", err))
				continue
			}
			s.hub.Broadcast <- msg
		}
	}
}
