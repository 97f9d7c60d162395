// Package mapping reads the consultation mapping file, which lists the
// evaluated (speech-to-text model, spellcheck model) combinations per
// consultation key and language.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
)

// Variation describes one evaluated (consultation, speech-to-text model,
// spellcheck model) combination.
type Variation struct {
	ConsultationID    string `json:"consultation_id"`
	SpeechToTextModel string `json:"speech_to_text_model"`
	SpellcheckModel   string `json:"spellcheck_model"`
}

// File mirrors the consultation mapping JSON: language → consultation key →
// variation list.
type File struct {
	ConsultationMappings map[string]map[string][]Variation `json:"consultation_mappings"`
}

// Load reads and decodes the consultation mapping file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read consultation mapping file %q: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid consultation mapping file %q: %w", path, err)
	}
	if f.ConsultationMappings == nil {
		return nil, fmt.Errorf("consultation mapping file %q has no consultation_mappings key", path)
	}
	return &f, nil
}

// ForLanguage returns the consultation-key → variations table for the given
// language.
func (f *File) ForLanguage(language string) (map[string][]Variation, error) {
	consultations, ok := f.ConsultationMappings[language]
	if !ok || len(consultations) == 0 {
		return nil, fmt.Errorf("no consultation mappings for language %q", language)
	}
	return consultations, nil
}
