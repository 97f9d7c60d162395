// Package evaluationengine runs the per-consultation evaluation loop:
// download the original and corrected transcripts for every variation,
// compare both against the ground-truth script, and emit one metric row per
// successfully processed variation.
package evaluationengine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"consult-transcript-eval/internal/coreengine/metricscalculator"
	"consult-transcript-eval/internal/mapping"
	"consult-transcript-eval/internal/objectstore"
	"consult-transcript-eval/internal/reportaggregator"
	"consult-transcript-eval/internal/scriptparser"
)

// Engine evaluates consultations against their ground-truth scripts using
// transcripts stored in the configured object store. One Engine is
// constructed per run; evaluation is synchronous and single-threaded.
type Engine struct {
	store objectstore.ObjectStore
	log   *logrus.Logger
	now   func() time.Time
}

// New returns an Engine reading transcripts from the given object store.
func New(store objectstore.ObjectStore, log *logrus.Logger) *Engine {
	return &Engine{store: store, log: log, now: time.Now}
}

// EvaluateFromScriptFile reads the ground-truth script for a consultation
// from disk and evaluates all of its variations. A missing or empty script
// fails the whole consultation; the caller skips it and continues with the
// remaining consultations.
func (e *Engine) EvaluateFromScriptFile(ctx context.Context, consultationKey string, scriptPath string, variations []mapping.Variation) ([]reportaggregator.VariationMetrics, error) {
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ground-truth script %q: %w", scriptPath, err)
	}

	groundTruth := scriptparser.ParseGroundTruth(strings.Split(string(data), "\n"))
	if groundTruth.Text == "" {
		return nil, fmt.Errorf("ground-truth script %q has no recognizable utterances", scriptPath)
	}

	return e.EvaluateConsultation(ctx, consultationKey, groundTruth, variations), nil
}

// EvaluateConsultation computes one metric row per variation. Variations
// whose transcripts cannot be downloaded or decoded are skipped with a
// warning, so the returned slice may be shorter than the variation list, or
// empty.
func (e *Engine) EvaluateConsultation(ctx context.Context, consultationKey string, groundTruth scriptparser.ParsedTranscript, variations []mapping.Variation) []reportaggregator.VariationMetrics {
	var rows []reportaggregator.VariationMetrics

	for _, variation := range variations {
		row, err := e.evaluateVariation(ctx, consultationKey, groundTruth, variation)
		if err != nil {
			e.log.WithError(err).WithFields(logrus.Fields{
				"consultation_key": consultationKey,
				"consultation_id":  variation.ConsultationID,
				"stt_model":        variation.SpeechToTextModel,
				"spellcheck_model": variation.SpellcheckModel,
			}).Warn("skipping variation")
			continue
		}
		rows = append(rows, *row)
	}

	return rows
}

func (e *Engine) evaluateVariation(ctx context.Context, consultationKey string, groundTruth scriptparser.ParsedTranscript, variation mapping.Variation) (*reportaggregator.VariationMetrics, error) {
	original, err := e.fetchTranscript(ctx, variation.ConsultationID, "original.json")
	if err != nil {
		return nil, err
	}
	corrected, err := e.fetchTranscript(ctx, variation.ConsultationID, "corrected.json")
	if err != nil {
		return nil, err
	}

	originalParsed := scriptparser.ParseTranscript(original)
	correctedParsed := scriptparser.ParseTranscript(corrected)

	cerOriginal, err := metricscalculator.CalculateCER(groundTruth.Text, originalParsed.Text)
	if err != nil {
		return nil, fmt.Errorf("CER (original): %w", err)
	}
	cerCorrected, err := metricscalculator.CalculateCER(groundTruth.Text, correctedParsed.Text)
	if err != nil {
		return nil, fmt.Errorf("CER (corrected): %w", err)
	}
	werOriginal, err := metricscalculator.CalculateWER(groundTruth.Text, originalParsed.Text)
	if err != nil {
		return nil, fmt.Errorf("WER (original): %w", err)
	}
	werCorrected, err := metricscalculator.CalculateWER(groundTruth.Text, correctedParsed.Text)
	if err != nil {
		return nil, fmt.Errorf("WER (corrected): %w", err)
	}

	falsePositives, falseNegatives := metricscalculator.CalculateFPFN(
		strings.Fields(groundTruth.Text),
		strings.Fields(originalParsed.Text),
		strings.Fields(correctedParsed.Text),
	)

	// Diarization comes from the speech-to-text step; the spellcheck pass
	// does not relabel speakers, so the original sequence is the prediction.
	diarizationAccuracy := metricscalculator.CalculateDiarizationAccuracy(groundTruth.SpeakerSequence, originalParsed.SpeakerSequence)

	overallQuality := metricscalculator.CalculateOverallQuality(cerCorrected, werCorrected, diarizationAccuracy)

	date := reportaggregator.ResolveDateOrDefault(original.Start, e.now())

	return &reportaggregator.VariationMetrics{
		ConsultationKey:     consultationKey,
		ConsultationID:      variation.ConsultationID,
		SpeechToTextModel:   variation.SpeechToTextModel,
		SpellcheckModel:     variation.SpellcheckModel,
		Year:                int32(date.Year()),
		Month:               int32(date.Month()),
		CEROriginal:         cerOriginal,
		CERCorrected:        cerCorrected,
		WEROriginal:         werOriginal,
		WERCorrected:        werCorrected,
		FalsePositives:      int64(falsePositives),
		FalseNegatives:      int64(falseNegatives),
		DiarizationAccuracy: diarizationAccuracy,
		OverallQuality:      overallQuality,
	}, nil
}

func (e *Engine) fetchTranscript(ctx context.Context, consultationID string, name string) (*scriptparser.TranscriptFile, error) {
	key := fmt.Sprintf("consultations/%s/%s", consultationID, name)

	data, err := e.store.GetObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download transcript %q: %w", key, err)
	}

	transcript, err := scriptparser.DecodeTranscript(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transcript %q: %w", key, err)
	}
	return transcript, nil
}
