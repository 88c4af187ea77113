package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/icodeforyou/barrywatch-go/barry"
	"github.com/icodeforyou/barrywatch-go/config"
	"github.com/icodeforyou/barrywatch-go/database"
	"github.com/icodeforyou/barrywatch-go/logging"
	"github.com/icodeforyou/barrywatch-go/provider"
	"github.com/icodeforyou/barrywatch-go/task"
	"github.com/icodeforyou/barrywatch-go/types"
	"github.com/icodeforyou/barrywatch-go/www"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleLevel := new(slog.LevelVar)
	consoleLevel.Set(cnfg.Logging.GetConsoleLevel())
	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      consoleLevel,
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("barrywatch is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to open database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	config.Watch(logger.With("module", "config"), consoleLevel)

	area, err := barry.ParsePriceArea(cnfg.Barry.Area)
	if err != nil {
		panic(fmt.Sprintf("bad price area in config: %v", err))
	}

	client := barry.New(cnfg.Barry.Token)
	logMeteringPoints(ctx, logger, client)

	src := provider.New(client, area, cnfg.Barry.MeteringPoint, cnfg.Consumption.GetLookbackDays())

	var quoteProvider types.PriceQuoteProvider = src
	if cnfg.Barry.MeteringPoint == 0 {
		logger.Warn("no metering point configured, skipping kWh price quotes")
		quoteProvider = nil
	}

	tasks := task.NewTasks(db, src, src, quoteProvider, cnfg)
	tasks.Run()
	defer tasks.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server := www.StartServer(db, cnfg)
	server.Run(ctx)
}

// logMeteringPoints logs the metering point descriptors visible with the
// configured token, so the id to put under barry.metering_point can be read
// straight from the log on first start.
func logMeteringPoints(ctx context.Context, logger *slog.Logger, client *barry.Client) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	points, err := client.MeteringPoints(ctx)
	if err != nil {
		logger.Warn("failed to list metering points", slog.Any("error", err))
		return
	}
	for _, p := range points {
		logger.Info("metering point", slog.String("descriptor", string(p)))
	}
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	time.Sleep(2 * time.Second)
	os.Exit(1)
}
