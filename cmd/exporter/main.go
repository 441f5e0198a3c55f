package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/export"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	once := flag.Bool("once", false, "Export every configured round once and exit")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start: %v", err)
	}
	defer service.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter, err := export.NewGSheetExporter(ctx, service)
	if err != nil {
		logger.Error.Fatalf("Failed to initialize Google Sheets exporter: %v", err)
	}

	if *once {
		for _, exp := range service.Config.GSheet.Exports {
			if err := exporter.Export(ctx, exp); err != nil {
				logger.Error.Printf("Export of round %s failed: %v", exp.Round, err)
			}
		}
		return
	}

	exporter.Start()
	logger.Info.Println("Rankings exporter started")

	<-ctx.Done()
	exporter.Stop()
	logger.Info.Println("Rankings exporter stopped")
}
