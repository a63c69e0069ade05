package main

import (
	"context"
	"log"

	"toothlab/adapters/report"
	"toothlab/adapters/stats/engine"
	"toothlab/adapters/tabular"
	"toothlab/app"
	"toothlab/internal/config"
	"toothlab/ports"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var loader ports.DatasetLoaderPort
	if appConfig.Data.DatasetPath != "" {
		log.Printf("Using dataset file: %s", appConfig.Data.DatasetPath)
		loader = tabular.NewDatasetReader(appConfig.Data.DatasetPath)
	} else {
		log.Printf("No dataset file configured, using the embedded tooth growth data")
		loader = tabular.NewEmbeddedLoader()
	}

	renderer := report.NewRenderer(report.Options{
		OutputDir:     appConfig.Report.OutputDir,
		DecimalPlaces: appConfig.Report.DecimalPlaces,
		EmitHTML:      appConfig.Report.EmitHTML,
	})

	service := app.NewReportService(loader, engine.NewStatsEngine(), renderer, appConfig.CodeVersion)

	bundle, err := service.Run(context.Background(), app.ReportRequest{})
	if err != nil {
		log.Fatalf("Report run failed: %v", err)
	}

	log.Printf("Report run %s finished in %dms", bundle.Manifest.RunID, bundle.RuntimeMs)
	log.Printf("Document: %s", bundle.DocumentPath)
	if bundle.HTMLPath != "" {
		log.Printf("HTML: %s", bundle.HTMLPath)
	}
	if bundle.FigurePath != "" {
		log.Printf("Figure: %s", bundle.FigurePath)
	}
	log.Printf("Fingerprint: %s", bundle.Manifest.Fingerprint.Fingerprint)
}
