package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Ayash-Bera/geonews/backend/internal/api/handlers"
	"github.com/Ayash-Bera/geonews/backend/internal/app"
	"github.com/Ayash-Bera/geonews/backend/internal/archive"
	"github.com/Ayash-Bera/geonews/backend/internal/config"
	"github.com/Ayash-Bera/geonews/backend/internal/geocoder"
	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/Ayash-Bera/geonews/backend/internal/prompts"
	"github.com/Ayash-Bera/geonews/backend/pkg/utils"
	"github.com/gin-gonic/gin/binding"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	// Command line flags
	latitude   = flag.Float64("lat", 40.7128, "Latitude")
	longitude  = flag.Float64("lon", -74.0060, "Longitude")
	radius     = flag.Float64("radius", models.DefaultRadius, "Search radius in kilometers")
	maxResults = flag.Int("max", models.DefaultMaxResults, "Maximum number of articles")
	categories = flag.String("categories", "", "Comma separated categories")
	structured = flag.Bool("structured", false, "Return individual articles instead of markdown")
	dryRun     = flag.Bool("dry-run", false, "Print the editor task without calling any external service")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	history    = flag.Int("history", 0, "List this many archived reports instead of generating one")
	location   = flag.String("location", "", "Only list archived reports for this location name")
)

func main() {
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	req := models.NewsRequest{
		Latitude:   latitude,
		Longitude:  longitude,
		Radius:     radius,
		MaxResults: maxResults,
		Categories: splitCategories(*categories),
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		logger.WithError(&models.ValidationError{Err: err}).Fatal("Invalid arguments")
	}
	params := req.Params()

	mode := models.ModeMarkdown
	if *structured {
		mode = models.ModeStructured
	}

	if *dryRun {
		loc := geocoder.Static{Name: "Dry Run Location"}.Reverse(context.Background(), params.Latitude, params.Longitude, params.Radius)
		fmt.Println(prompts.Build(models.ReportRequest{
			Location:   loc,
			Categories: params.Categories,
			MaxResults: params.MaxResults,
			Mode:       mode,
		}))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	application, err := app.New(cfg, handlers.ServiceVersion, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize application")
	}

	ctx := context.Background()
	if *history > 0 {
		printHistory(ctx, application, logger)
		return
	}

	loc := application.News.Locate(ctx, params)

	var out any
	if *structured {
		out, err = application.News.StructuredReport(ctx, loc, params)
	} else {
		out, err = application.News.MarkdownReport(ctx, loc, params)
	}
	application.Close()
	if err != nil {
		logger.WithError(err).Fatal("Report generation failed")
	}

	writeJSON(out, logger)
}

func printHistory(ctx context.Context, application *app.App, logger *logrus.Logger) {
	defer application.Close()

	store, ok := application.News.Archive().(archive.History)
	if !ok {
		logger.WithField("driver", application.News.ArchiveDriver()).Fatal("Archive driver cannot list reports")
	}
	rows, err := store.Recent(ctx, *location, *history)
	if err != nil {
		logger.WithError(err).Fatal("Failed to list archived reports")
	}
	writeJSON(rows, logger)
}

func writeJSON(v any, logger *logrus.Logger) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.WithError(err).Fatal("Failed to write output")
	}
}

func splitCategories(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
