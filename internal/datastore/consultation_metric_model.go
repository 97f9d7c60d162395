package datastore

import (
	"database/sql"
	"time"
)

// ConsultationMetric maps to the consultation_metrics table. One row per
// (consultation, speech-to-text model, spellcheck model) combination;
// rows are append-only.
type ConsultationMetric struct {
	ID                  int             `json:"id"`
	ConsultationKey     string          `json:"consultation_key"`
	ConsultationID      string          `json:"consultation_id"`
	SpeechToTextModel   string          `json:"speech_to_text_model"`
	SpellcheckModel     string          `json:"spellcheck_model"`
	Year                int             `json:"year"`
	Month               int             `json:"month"`
	CEROriginal         sql.NullFloat64 `json:"cer_original,omitempty"`
	CERCorrected        sql.NullFloat64 `json:"cer_corrected,omitempty"`
	WEROriginal         sql.NullFloat64 `json:"wer_original,omitempty"`
	WERCorrected        sql.NullFloat64 `json:"wer_corrected,omitempty"`
	FalsePositives      sql.NullInt64   `json:"false_positives,omitempty"`
	FalseNegatives      sql.NullInt64   `json:"false_negatives,omitempty"`
	DiarizationAccuracy sql.NullFloat64 `json:"diarization_accuracy,omitempty"`
	OverallQuality      sql.NullFloat64 `json:"overall_quality,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}
