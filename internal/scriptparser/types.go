package scriptparser

import (
	"encoding/json"
	"fmt"
)

// TranscriptAlternative is one speaker-tagged utterance in a machine
// transcript.
type TranscriptAlternative struct {
	Transcript string `json:"transcript"`
	Speaker    int    `json:"speaker"`
}

// TranscriptFile mirrors the transcript JSON stored at
// consultations/{id}/original.json and consultations/{id}/corrected.json.
// Start is the recorded consultation start date (ISO format) and may be
// absent.
type TranscriptFile struct {
	Start   string `json:"start"`
	Channel struct {
		Alternatives []TranscriptAlternative `json:"alternatives"`
	} `json:"channel"`
}

// DecodeTranscript decodes raw transcript JSON into a TranscriptFile.
// A structural mismatch fails the decode; callers treat that as a failure
// of the single variation the transcript belongs to, not of the whole run.
func DecodeTranscript(data []byte) (*TranscriptFile, error) {
	var t TranscriptFile
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("invalid transcript JSON: %w", err)
	}
	return &t, nil
}
