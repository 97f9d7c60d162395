package datastore

import (
	"fmt"
	"time"
)

// MetricsFilter restricts ListConsultationMetrics. Zero values mean "no
// filter" for the corresponding column.
type MetricsFilter struct {
	ConsultationKey   string
	SpeechToTextModel string
	SpellcheckModel   string
	Year              int
	Month             int
}

// CreateConsultationMetric inserts a new metric row and returns its ID.
func (s *Store) CreateConsultationMetric(m *ConsultationMetric) (int, error) {
	query := `
		INSERT INTO consultation_metrics (
			consultation_key, consultation_id, speech_to_text_model, spellcheck_model,
			year, month, cer_original, cer_corrected, wer_original, wer_corrected,
			false_positives, false_negatives, diarization_accuracy, overall_quality,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	m.CreatedAt = time.Now()

	var id int
	err := s.db.QueryRow(
		query,
		m.ConsultationKey,
		m.ConsultationID,
		m.SpeechToTextModel,
		m.SpellcheckModel,
		m.Year,
		m.Month,
		m.CEROriginal,
		m.CERCorrected,
		m.WEROriginal,
		m.WERCorrected,
		m.FalsePositives,
		m.FalseNegatives,
		m.DiarizationAccuracy,
		m.OverallQuality,
		m.CreatedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create consultation metric: %w", err)
	}
	m.ID = id
	return id, nil
}

// ListConsultationMetrics retrieves metric rows matching the filter, most
// recent first.
func (s *Store) ListConsultationMetrics(filter MetricsFilter) ([]ConsultationMetric, error) {
	query := `
		SELECT id, consultation_key, consultation_id, speech_to_text_model, spellcheck_model,
		       year, month, cer_original, cer_corrected, wer_original, wer_corrected,
		       false_positives, false_negatives, diarization_accuracy, overall_quality,
		       created_at
		FROM consultation_metrics
	`
	var conditions []string
	var args []interface{}

	addCondition := func(column string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.ConsultationKey != "" {
		addCondition("consultation_key", filter.ConsultationKey)
	}
	if filter.SpeechToTextModel != "" {
		addCondition("speech_to_text_model", filter.SpeechToTextModel)
	}
	if filter.SpellcheckModel != "" {
		addCondition("spellcheck_model", filter.SpellcheckModel)
	}
	if filter.Year != 0 {
		addCondition("year", filter.Year)
	}
	if filter.Month != 0 {
		addCondition("month", filter.Month)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultation metrics: %w", err)
	}
	defer rows.Close()

	var metrics []ConsultationMetric
	for rows.Next() {
		var m ConsultationMetric
		err := rows.Scan(
			&m.ID,
			&m.ConsultationKey,
			&m.ConsultationID,
			&m.SpeechToTextModel,
			&m.SpellcheckModel,
			&m.Year,
			&m.Month,
			&m.CEROriginal,
			&m.CERCorrected,
			&m.WEROriginal,
			&m.WERCorrected,
			&m.FalsePositives,
			&m.FalseNegatives,
			&m.DiarizationAccuracy,
			&m.OverallQuality,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consultation metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consultation metric rows: %w", err)
	}

	return metrics, nil
}
