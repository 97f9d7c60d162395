package scriptparser

import (
	"strings"
)

// Speaker ids for the two-party consultation model. Upstream speech-to-text
// may emit additional labels; anything outside this enumeration is dropped
// at parse time rather than treated as an error.
const (
	SpeakerDoctor  = 0
	SpeakerPatient = 1
)

var speakerLabels = map[string]int{
	"doctor":  SpeakerDoctor,
	"patient": SpeakerPatient,
}

// KnownSpeaker reports whether id belongs to the doctor/patient enumeration.
func KnownSpeaker(id int) bool {
	return id == SpeakerDoctor || id == SpeakerPatient
}

// ParsedTranscript is the uniform output of both parsers: all utterance text
// space-joined, plus the per-utterance speaker ids in original order.
type ParsedTranscript struct {
	Text            string
	SpeakerSequence []int
}

// ParseGroundTruth converts a ground-truth consultation script into a
// ParsedTranscript. Each line is expected to look like "Doctor: Hello there",
// with the speaker label matched case-insensitively. Lines without a colon,
// with an unrecognized speaker label, or with an empty utterance after
// stripping contribute nothing. Empty input yields ("", nil).
func ParseGroundTruth(lines []string) ParsedTranscript {
	var utterances []string
	var speakers []int

	for _, line := range lines {
		label, utterance, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		id, ok := speakerLabels[strings.ToLower(strings.TrimSpace(label))]
		if !ok {
			continue
		}
		utterance = strings.TrimSpace(utterance)
		if utterance == "" {
			continue
		}
		utterances = append(utterances, utterance)
		speakers = append(speakers, id)
	}

	return ParsedTranscript{
		Text:            strings.Join(utterances, " "),
		SpeakerSequence: speakers,
	}
}

// ParseTranscript converts a decoded machine transcript into a
// ParsedTranscript, keeping only alternatives whose speaker id belongs to
// the doctor/patient enumeration and whose text is non-empty after
// stripping.
func ParseTranscript(t *TranscriptFile) ParsedTranscript {
	var utterances []string
	var speakers []int

	if t != nil {
		for _, alt := range t.Channel.Alternatives {
			if !KnownSpeaker(alt.Speaker) {
				continue
			}
			text := strings.TrimSpace(alt.Transcript)
			if text == "" {
				continue
			}
			utterances = append(utterances, text)
			speakers = append(speakers, alt.Speaker)
		}
	}

	return ParsedTranscript{
		Text:            strings.Join(utterances, " "),
		SpeakerSequence: speakers,
	}
}
