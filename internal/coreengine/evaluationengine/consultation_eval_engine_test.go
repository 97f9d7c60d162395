package evaluationengine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"consult-transcript-eval/internal/mapping"
)

type fakeStore struct {
	objects map[string][]byte
}

func (f *fakeStore) GetObject(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return data, nil
}

func (f *fakeStore) PutObject(_ context.Context, key string, data []byte, _ string) error {
	f.objects[key] = data
	return nil
}

func (f *fakeStore) RemoveObject(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) ObjectExists(_ context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const goodTranscript = `{
	"start": "2024-03-15",
	"channel": {
		"alternatives": [
			{"transcript": "How are you feeling", "speaker": 0},
			{"transcript": "Better today", "speaker": 1}
		]
	}
}`

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "consult-1.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func TestEvaluateConsultationEndToEnd(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{
		"consultations/id-1/original.json":  []byte(goodTranscript),
		"consultations/id-1/corrected.json": []byte(goodTranscript),
	}}
	engine := New(store, testLogger())

	scriptPath := writeScript(t, "Doctor: How are you feeling?\nPatient: Better today.\n")
	variations := []mapping.Variation{
		{ConsultationID: "id-1", SpeechToTextModel: "nova-2", SpellcheckModel: "gpt-4o"},
	}

	rows, err := engine.EvaluateFromScriptFile(context.Background(), "consult-1", scriptPath, variations)
	if err != nil {
		t.Fatalf("EvaluateFromScriptFile() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	row := rows[0]
	if row.WEROriginal != row.WERCorrected {
		t.Errorf("wer_original = %v, wer_corrected = %v, want equal for identical transcripts", row.WEROriginal, row.WERCorrected)
	}
	if row.FalsePositives != 0 {
		t.Errorf("false_positives = %d, want 0", row.FalsePositives)
	}
	if row.DiarizationAccuracy != 1.0 {
		t.Errorf("diarization_accuracy = %v, want 1.0", row.DiarizationAccuracy)
	}
	if row.Year != 2024 || row.Month != 3 {
		t.Errorf("partition date = %d-%d, want 2024-3", row.Year, row.Month)
	}
	if row.ConsultationKey != "consult-1" || row.ConsultationID != "id-1" {
		t.Errorf("row identity = %q/%q, want consult-1/id-1", row.ConsultationKey, row.ConsultationID)
	}
}

// A variation whose transcript is missing or undecodable is skipped; its
// siblings still produce rows.
func TestEvaluateConsultationSkipsBrokenVariations(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{
		"consultations/good/original.json":  []byte(goodTranscript),
		"consultations/good/corrected.json": []byte(goodTranscript),
		"consultations/bad/original.json":   []byte(`{"channel": [1, 2, 3]}`),
		// missing: consultations/absent/original.json
	}}
	engine := New(store, testLogger())

	scriptPath := writeScript(t, "Doctor: How are you feeling?\nPatient: Better today.\n")
	variations := []mapping.Variation{
		{ConsultationID: "absent", SpeechToTextModel: "nova-2", SpellcheckModel: "gpt-4o"},
		{ConsultationID: "bad", SpeechToTextModel: "nova-2", SpellcheckModel: "gpt-4o"},
		{ConsultationID: "good", SpeechToTextModel: "nova-2", SpellcheckModel: "gpt-4o"},
	}

	rows, err := engine.EvaluateFromScriptFile(context.Background(), "consult-1", scriptPath, variations)
	if err != nil {
		t.Fatalf("EvaluateFromScriptFile() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (only the good variation)", len(rows))
	}
	if rows[0].ConsultationID != "good" {
		t.Errorf("surviving row is %q, want %q", rows[0].ConsultationID, "good")
	}
}

func TestEvaluateConsultationDateFallback(t *testing.T) {
	noStart := `{
		"channel": {
			"alternatives": [
				{"transcript": "How are you feeling", "speaker": 0},
				{"transcript": "Better today", "speaker": 1}
			]
		}
	}`
	store := &fakeStore{objects: map[string][]byte{
		"consultations/id-1/original.json":  []byte(noStart),
		"consultations/id-1/corrected.json": []byte(noStart),
	}}
	engine := New(store, testLogger())
	engine.now = func() time.Time {
		return time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC)
	}

	scriptPath := writeScript(t, "Doctor: How are you feeling?\nPatient: Better today.\n")
	variations := []mapping.Variation{
		{ConsultationID: "id-1", SpeechToTextModel: "nova-2", SpellcheckModel: "gpt-4o"},
	}

	rows, err := engine.EvaluateFromScriptFile(context.Background(), "consult-1", scriptPath, variations)
	if err != nil {
		t.Fatalf("EvaluateFromScriptFile() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Year != 2025 || rows[0].Month != 6 {
		t.Errorf("partition date = %d-%d, want fallback 2025-6", rows[0].Year, rows[0].Month)
	}
}

func TestEvaluateFromScriptFileErrors(t *testing.T) {
	engine := New(&fakeStore{objects: map[string][]byte{}}, testLogger())

	if _, err := engine.EvaluateFromScriptFile(context.Background(), "k", "/does/not/exist.txt", nil); err == nil {
		t.Error("expected error for missing script file, got nil")
	}

	scriptPath := writeScript(t, "Narrator: nobody recognizable\n\n")
	if _, err := engine.EvaluateFromScriptFile(context.Background(), "k", scriptPath, nil); err == nil {
		t.Error("expected error for script without recognizable utterances, got nil")
	}
}
