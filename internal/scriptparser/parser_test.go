package scriptparser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseGroundTruth(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  ParsedTranscript
	}{
		{
			name: "recognized speakers in order",
			lines: []string{
				"Doctor: Hello there",
				"Patient: I feel fine",
			},
			want: ParsedTranscript{
				Text:            "Hello there I feel fine",
				SpeakerSequence: []int{SpeakerDoctor, SpeakerPatient},
			},
		},
		{
			name: "unrecognized speaker contributes nothing",
			lines: []string{
				"Doctor: Hello there",
				"Nurse: Hi",
			},
			want: ParsedTranscript{
				Text:            "Hello there",
				SpeakerSequence: []int{SpeakerDoctor},
			},
		},
		{
			name: "label matching is case-insensitive",
			lines: []string{
				"  doctor : good morning",
				"PATIENT: morning",
			},
			want: ParsedTranscript{
				Text:            "good morning morning",
				SpeakerSequence: []int{SpeakerDoctor, SpeakerPatient},
			},
		},
		{
			name: "lines without colon or without text are skipped",
			lines: []string{
				"just narration",
				"Doctor:    ",
				"Patient: still here",
			},
			want: ParsedTranscript{
				Text:            "still here",
				SpeakerSequence: []int{SpeakerPatient},
			},
		},
		{
			name: "only the first colon delimits the speaker",
			lines: []string{
				"Doctor: Take this: twice daily",
			},
			want: ParsedTranscript{
				Text:            "Take this: twice daily",
				SpeakerSequence: []int{SpeakerDoctor},
			},
		},
		{
			name:  "empty input",
			lines: nil,
			want:  ParsedTranscript{Text: "", SpeakerSequence: []int{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGroundTruth(tt.lines)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ParseGroundTruth() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTranscript(t *testing.T) {
	transcript := &TranscriptFile{}
	transcript.Channel.Alternatives = []TranscriptAlternative{
		{Transcript: "  Hello there  ", Speaker: 0},
		{Transcript: "", Speaker: 1},
		{Transcript: "background noise", Speaker: 2},
		{Transcript: "Better today", Speaker: 1},
	}

	got := ParseTranscript(transcript)
	want := ParsedTranscript{
		Text:            "Hello there Better today",
		SpeakerSequence: []int{SpeakerDoctor, SpeakerPatient},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseTranscript() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTranscriptEmpty(t *testing.T) {
	got := ParseTranscript(&TranscriptFile{})
	if got.Text != "" || len(got.SpeakerSequence) != 0 {
		t.Errorf("ParseTranscript(empty) = %+v, want empty result", got)
	}

	got = ParseTranscript(nil)
	if got.Text != "" || len(got.SpeakerSequence) != 0 {
		t.Errorf("ParseTranscript(nil) = %+v, want empty result", got)
	}
}

func TestDecodeTranscript(t *testing.T) {
	data := []byte(`{
		"start": "2024-03-15",
		"channel": {
			"alternatives": [
				{"transcript": "How are you feeling", "speaker": 0},
				{"transcript": "Better today", "speaker": 1}
			]
		}
	}`)

	transcript, err := DecodeTranscript(data)
	if err != nil {
		t.Fatalf("DecodeTranscript() error = %v", err)
	}
	if transcript.Start != "2024-03-15" {
		t.Errorf("Start = %q, want %q", transcript.Start, "2024-03-15")
	}
	if len(transcript.Channel.Alternatives) != 2 {
		t.Fatalf("got %d alternatives, want 2", len(transcript.Channel.Alternatives))
	}
	if transcript.Channel.Alternatives[1].Speaker != 1 {
		t.Errorf("second alternative speaker = %d, want 1", transcript.Channel.Alternatives[1].Speaker)
	}
}

func TestDecodeTranscriptInvalid(t *testing.T) {
	if _, err := DecodeTranscript([]byte(`{"channel": "not an object"`)); err == nil {
		t.Error("DecodeTranscript() expected error for invalid JSON, got nil")
	}
}
