package reportaggregator

// VariationMetrics is one immutable row of quality metrics for a single
// (consultation, speech-to-text model, spellcheck model) combination.
// Rows are keyed by (year, month, stt_model, spellcheck_model) for
// partitioning and never mutated after computation.
type VariationMetrics struct {
	ConsultationKey     string  `parquet:"consultation_key" json:"consultation_key"`
	ConsultationID      string  `parquet:"consultation_id" json:"consultation_id"`
	SpeechToTextModel   string  `parquet:"speech_to_text_model" json:"speech_to_text_model"`
	SpellcheckModel     string  `parquet:"spellcheck_model" json:"spellcheck_model"`
	Year                int32   `parquet:"year" json:"year"`
	Month               int32   `parquet:"month" json:"month"`
	CEROriginal         float64 `parquet:"cer_original" json:"cer_original"`
	CERCorrected        float64 `parquet:"cer_corrected" json:"cer_corrected"`
	WEROriginal         float64 `parquet:"wer_original" json:"wer_original"`
	WERCorrected        float64 `parquet:"wer_corrected" json:"wer_corrected"`
	FalsePositives      int64   `parquet:"false_positives" json:"false_positives"`
	FalseNegatives      int64   `parquet:"false_negatives" json:"false_negatives"`
	DiarizationAccuracy float64 `parquet:"diarization_accuracy" json:"diarization_accuracy"`
	OverallQuality      float64 `parquet:"overall_quality" json:"overall_quality"`
}

// PartitionKey identifies one storage partition of metric rows.
type PartitionKey struct {
	Year              int
	Month             int
	SpeechToTextModel string
	SpellcheckModel   string
}
