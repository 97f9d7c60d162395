// Package reportaggregator groups per-variation metric rows into
// (year, month, stt_model, spellcheck_model) storage partitions and
// persists them with all-or-nothing semantics across a run.
package reportaggregator

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"

	"consult-transcript-eval/internal/objectstore"
)

// unsafePathChars matches every character that is not safe inside a storage
// path segment.
var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9._~-]`)

// SanitizeModelName replaces every character outside [A-Za-z0-9._~-] with
// "-" so model names are safe as storage path segments.
func SanitizeModelName(name string) string {
	return unsafePathChars.ReplaceAllString(name, "-")
}

// dateLayouts are tried in order when resolving a transcript start date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ResolveDateOrDefault parses an ISO date or timestamp string, falling back
// to the supplied default when the value is absent or unparseable. The
// fallback policy is kept explicit here so it stays independently testable.
func ResolveDateOrDefault(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}

// Prefix returns the storage path prefix for this partition, with model
// names sanitized.
func (k PartitionKey) Prefix() string {
	return fmt.Sprintf("metrics/processed/year=%d/month=%02d/stt_model=%s/spellcheck_model=%s",
		k.Year, k.Month, SanitizeModelName(k.SpeechToTextModel), SanitizeModelName(k.SpellcheckModel))
}

// BuildPartitions groups metric rows by partition key.
func BuildPartitions(rows []VariationMetrics) map[PartitionKey][]VariationMetrics {
	partitions := make(map[PartitionKey][]VariationMetrics)
	for _, row := range rows {
		key := PartitionKey{
			Year:              int(row.Year),
			Month:             int(row.Month),
			SpeechToTextModel: row.SpeechToTextModel,
			SpellcheckModel:   row.SpellcheckModel,
		}
		partitions[key] = append(partitions[key], row)
	}
	return partitions
}

// Aggregator persists metric partitions to the configured object store.
type Aggregator struct {
	store objectstore.ObjectStore
	log   *logrus.Logger
}

// New returns an Aggregator writing through the given object store.
func New(store objectstore.ObjectStore, log *logrus.Logger) *Aggregator {
	return &Aggregator{store: store, log: log}
}

// UploadPartitions serializes each partition of rows to a Parquet file and
// uploads it under metrics/processed/. If any serialization or upload fails,
// every key uploaded earlier in the same run is deleted (best effort) and an
// empty list is returned: a run commits all of its partitions or none of
// them. The returned list holds the keys actually committed.
func (a *Aggregator) UploadPartitions(ctx context.Context, rows []VariationMetrics) []string {
	partitions := BuildPartitions(rows)

	// Stable upload order keeps logs and failure behavior reproducible.
	keys := make([]PartitionKey, 0, len(partitions))
	for key := range partitions {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Prefix() < keys[j].Prefix()
	})

	uploaded := make([]string, 0, len(keys))
	for _, key := range keys {
		group := partitions[key]

		data, err := encodePartition(group)
		if err != nil {
			a.log.WithError(err).WithField("partition", key.Prefix()).Error("failed to serialize metric partition, rolling back run")
			a.rollback(ctx, uploaded)
			return []string{}
		}

		objectKey := fmt.Sprintf("%s/%s.parquet", key.Prefix(), uuid.New().String())
		if err := a.store.PutObject(ctx, objectKey, data, "application/octet-stream"); err != nil {
			a.log.WithError(err).WithField("key", objectKey).Error("failed to upload metric partition, rolling back run")
			a.rollback(ctx, uploaded)
			return []string{}
		}

		a.log.WithFields(logrus.Fields{"key": objectKey, "rows": len(group)}).Info("uploaded metric partition")
		uploaded = append(uploaded, objectKey)
	}

	return uploaded
}

// rollback deletes the keys uploaded earlier in the same run. Only keys from
// this run are ever touched; deletion failures are logged, not raised.
func (a *Aggregator) rollback(ctx context.Context, uploaded []string) {
	for _, key := range uploaded {
		if err := a.store.RemoveObject(ctx, key); err != nil {
			a.log.WithError(err).WithField("key", key).Warn("failed to delete partition during rollback")
		}
	}
}

func encodePartition(rows []VariationMetrics) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := parquet.NewGenericWriter[VariationMetrics](buf)
	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return buf.Bytes(), nil
}
