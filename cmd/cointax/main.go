package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cointax/internal/config"
	"cointax/internal/csvtrade"
	"cointax/internal/ledger"
	"cointax/internal/model"
	"cointax/internal/server"
	"cointax/internal/tax"
)

// Usage: cointax [-config DIR]              serve the ledger API
//        cointax file1.csv [file2.csv ...]  print a one-shot summary
func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	if files := flag.Args(); len(files) > 0 {
		runFiles(files)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	logger := newLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	book := ledger.New(logger, time.Duration(cfg.Ledger.RecomputeDebounceMS)*time.Millisecond)
	go book.Run(ctx)

	srv := server.New(logger, &cfg, book)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// runFiles parses the given exports and prints the estimated tax summary.
func runFiles(files []string) {
	parser := csvtrade.NewParser(newLogger("warn"))

	var trades []model.Trade
	var skipped int
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("cannot read %s: %v", path, err)
		}
		t, s := parser.Parse(string(data))
		trades = append(trades, t...)
		skipped += s
	}

	fmt.Printf("%d trades read (%d rows skipped)\n\n", len(trades), skipped)
	fmt.Println(tax.NewReport(tax.Summarize(trades)))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
