// Command evaluate runs the transcription quality evaluation pipeline for a
// set of consultations and uploads the resulting metric partitions.
//
// Usage:
//
//	evaluate [-m consultation_mapping.json] [-g consultation-scripts] bucket language consultation_key...
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"consult-transcript-eval/internal/config"
	"consult-transcript-eval/internal/coreengine/evaluationengine"
	"consult-transcript-eval/internal/datastore"
	"consult-transcript-eval/internal/logger"
	"consult-transcript-eval/internal/mapping"
	"consult-transcript-eval/internal/objectstore"
	"consult-transcript-eval/internal/reportaggregator"
)

// storeFactory builds the object store backing a run. main wires in
// buildObjectStore; tests substitute an in-memory store.
type storeFactory func(ctx context.Context, cfg *config.Config, bucket string) (objectstore.ObjectStore, error)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, buildObjectStore))
}

func run(args []string, stdout io.Writer, newStore storeFactory) int {
	log := logger.New()

	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stdout)
	mappingPath := fs.String("m", "consultation_mapping.json", "Path to the consultation mapping file")
	fs.StringVar(mappingPath, "consultation_mapping_path", "consultation_mapping.json", "Path to the consultation mapping file")
	gtDir := fs.String("g", "consultation-scripts", "Directory containing ground-truth consultation scripts")
	fs.StringVar(gtDir, "gt_dir", "consultation-scripts", "Directory containing ground-truth consultation scripts")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [options] bucket language consultation_key...\n", os.Args[0])
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	positional := fs.Args()
	if len(positional) < 3 {
		fs.Usage()
		return 1
	}
	bucket := positional[0]
	language := positional[1]
	consultationKeys := positional[2:]

	if language != "english" && language != "spanish" {
		fmt.Fprintf(stdout, "Unsupported language %q: must be english or spanish\n", language)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdout, "Configuration error: %v\n", err)
		return 1
	}

	info, err := os.Stat(*gtDir)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(stdout, "Ground-truth directory %q not found\n", *gtDir)
		return 1
	}

	mappingFile, err := mapping.Load(*mappingPath)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to load consultation mapping: %v\n", err)
		return 1
	}
	consultations, err := mappingFile.ForLanguage(language)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to resolve language mappings: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := newStore(ctx, cfg, bucket)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to initialize object store: %v\n", err)
		return 1
	}

	engine := evaluationengine.New(store, log)

	var rows []reportaggregator.VariationMetrics
	processed := 0
	for _, key := range consultationKeys {
		variations, ok := consultations[key]
		if !ok || len(variations) == 0 {
			log.WithField("consultation_key", key).Warn("no variations mapped for consultation, skipping")
			continue
		}

		scriptPath := filepath.Join(*gtDir, key+".txt")
		consultationRows, err := engine.EvaluateFromScriptFile(ctx, key, scriptPath, variations)
		if err != nil {
			log.WithError(err).WithField("consultation_key", key).Warn("skipping consultation")
			continue
		}
		if len(consultationRows) == 0 {
			log.WithField("consultation_key", key).Warn("no variations processed for consultation, skipping")
			continue
		}

		processed++
		rows = append(rows, consultationRows...)
		log.WithFields(logrus.Fields{"consultation_key": key, "variations": len(consultationRows)}).Info("consultation processed")
	}

	if processed == 0 {
		fmt.Fprintln(stdout, "No consultations were processed successfully")
		return 1
	}

	aggregator := reportaggregator.New(store, log)
	uploaded := aggregator.UploadPartitions(ctx, rows)
	if len(uploaded) == 0 {
		fmt.Fprintln(stdout, "No metric partitions were uploaded")
		return 1
	}
	log.WithField("partitions", len(uploaded)).Info("metric partitions uploaded")

	// The relational store is a query-side convenience; the Parquet
	// partitions remain the system of record, so insert failures only warn.
	if cfg.DatabaseDSN != "" {
		persistRows(log, cfg.DatabaseDSN, rows)
	}
	return 0
}

func buildObjectStore(ctx context.Context, cfg *config.Config, bucket string) (objectstore.ObjectStore, error) {
	switch cfg.StorageBackend {
	case config.BackendMinio:
		return objectstore.NewMinioStore(ctx, objectstore.MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioAccessKeyID,
			SecretAccessKey: cfg.MinioSecretAccessKey,
			Bucket:          bucket,
			UseSSL:          cfg.MinioUseSSL,
		})
	default:
		return objectstore.NewS3Store(ctx, cfg.AWSRegion, bucket)
	}
}

func persistRows(log *logrus.Logger, dsn string, rows []reportaggregator.VariationMetrics) {
	store, err := datastore.Open(dsn)
	if err != nil {
		log.WithError(err).Warn("metrics database unavailable, skipping relational persistence")
		return
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		log.WithError(err).Warn("failed to ensure metrics schema, skipping relational persistence")
		return
	}

	for _, row := range rows {
		metric := toConsultationMetric(row)
		if _, err := store.CreateConsultationMetric(&metric); err != nil {
			log.WithError(err).WithField("consultation_id", row.ConsultationID).Warn("failed to persist metric row")
		}
	}
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func toConsultationMetric(row reportaggregator.VariationMetrics) datastore.ConsultationMetric {
	return datastore.ConsultationMetric{
		ConsultationKey:     row.ConsultationKey,
		ConsultationID:      row.ConsultationID,
		SpeechToTextModel:   row.SpeechToTextModel,
		SpellcheckModel:     row.SpellcheckModel,
		Year:                int(row.Year),
		Month:               int(row.Month),
		CEROriginal:         nullFloat(row.CEROriginal),
		CERCorrected:        nullFloat(row.CERCorrected),
		WEROriginal:         nullFloat(row.WEROriginal),
		WERCorrected:        nullFloat(row.WERCorrected),
		FalsePositives:      nullInt(row.FalsePositives),
		FalseNegatives:      nullInt(row.FalseNegatives),
		DiarizationAccuracy: nullFloat(row.DiarizationAccuracy),
		OverallQuality:      nullFloat(row.OverallQuality),
	}
}
