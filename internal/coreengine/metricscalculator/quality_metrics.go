package metricscalculator

import (
	"fmt"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Weights for the composite quality score. Word-level accuracy dominates;
// character-level accuracy and diarization agreement contribute equally.
const (
	charAccuracyWeight = 0.2
	wordAccuracyWeight = 0.6
	diarizationWeight  = 0.2
)

// diarizationPadding is appended to the shorter speaker sequence so that
// length mismatches count as errors. It can never equal a real speaker id.
const diarizationPadding = -1

var editOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: func(sourceItem, targetItem rune) bool {
		return sourceItem == targetItem
	},
}

// CalculateWER calculates the Word Error Rate (WER).
// WER = (Substitutions + Insertions + Deletions) / Number of words in reference
func CalculateWER(groundTruth string, recognizedText string) (float64, error) {
	wordsGroundTruth := strings.Fields(groundTruth)
	wordsRecognized := strings.Fields(recognizedText)

	if len(wordsGroundTruth) == 0 {
		if len(wordsRecognized) == 0 {
			return 0.0, nil
		}
		// Normalizing by a zero-length reference is undefined; treat any
		// recognized output against an empty reference as 100% error.
		return 1.0, fmt.Errorf("ground truth is empty, cannot normalize WER (recognized: %d words, treated as 100%% error)", len(wordsRecognized))
	}

	distance := WordEditDistance(wordsGroundTruth, wordsRecognized)
	return float64(distance) / float64(len(wordsGroundTruth)), nil
}

// CalculateCER calculates the Character Error Rate (CER).
// CER = (Substitutions + Insertions + Deletions) / Number of characters in reference
func CalculateCER(groundTruth string, recognizedText string) (float64, error) {
	runesGroundTruth := []rune(groundTruth)
	runesRecognized := []rune(recognizedText)

	if len(runesGroundTruth) == 0 {
		if len(runesRecognized) == 0 {
			return 0.0, nil
		}
		return 1.0, fmt.Errorf("ground truth is empty, cannot normalize CER (recognized: %d chars, treated as 100%% error)", len(runesRecognized))
	}

	distance := levenshtein.DistanceForStrings(runesGroundTruth, runesRecognized, editOptions)
	return float64(distance) / float64(len(runesGroundTruth)), nil
}

// WordEditDistance returns the Levenshtein distance between two word
// sequences, with unit costs for substitution, insertion and deletion.
func WordEditDistance(source []string, target []string) int {
	// The library computes distances over rune sequences only, so each
	// distinct word is interned as a distinct rune; with unit costs and
	// equality matching this preserves the word-level distance exactly.
	interned := make(map[string]rune)
	intern := func(words []string) []rune {
		runes := make([]rune, len(words))
		for i, w := range words {
			r, ok := interned[w]
			if !ok {
				r = rune(len(interned))
				interned[w] = r
			}
			runes[i] = r
		}
		return runes
	}
	sourceRunes := intern(source)
	targetRunes := intern(target)
	return levenshtein.DistanceForStrings(sourceRunes, targetRunes, editOptions)
}

// CalculateFPFN estimates how many word edits the automated correction step
// introduced beyond what was needed (false positives) and how many reference
// errors it left in place (false negatives).
//
// The decomposition is a fixed edit-distance heuristic, not a true
// alignment-based count: when a correction both fixes and introduces errors
// in overlapping spans, the original-vs-corrected distance can double-count
// edits already reflected in the improvement term. This formula is the
// documented contract and must be preserved as-is.
func CalculateFPFN(groundTruth []string, original []string, corrected []string) (falsePositives int, falseNegatives int) {
	distOriginalGT := WordEditDistance(groundTruth, original)
	distCorrectedGT := WordEditDistance(groundTruth, corrected)
	distOriginalCorrected := WordEditDistance(corrected, original)

	improvements := distOriginalGT - distCorrectedGT
	if improvements < 0 {
		improvements = 0
	}

	falsePositives = distOriginalCorrected - improvements
	if falsePositives < 0 {
		falsePositives = 0
	}
	falseNegatives = distCorrectedGT
	return falsePositives, falseNegatives
}

// CalculateDiarizationAccuracy counts positional speaker matches between the
// ground-truth and predicted speaker sequences. The shorter sequence is
// padded with a sentinel so length mismatches are penalized rather than
// truncated. The denominator is floored at 1, so two empty sequences yield
// 0.0 instead of dividing by zero.
func CalculateDiarizationAccuracy(groundTruth []int, predicted []int) float64 {
	length := len(groundTruth)
	if len(predicted) > length {
		length = len(predicted)
	}

	matches := 0
	for i := 0; i < length; i++ {
		gt := diarizationPadding
		if i < len(groundTruth) {
			gt = groundTruth[i]
		}
		pred := diarizationPadding
		if i < len(predicted) {
			pred = predicted[i]
		}
		if gt == pred {
			matches++
		}
	}

	denominator := length
	if denominator < 1 {
		denominator = 1
	}
	return float64(matches) / float64(denominator)
}

// CalculateOverallQuality combines corrected-transcript error rates and
// diarization accuracy into the composite quality score. The two accuracy
// terms are floored at 0 so error rates above 1.0 cannot drive the score
// negative.
func CalculateOverallQuality(cerCorrected float64, werCorrected float64, diarizationAccuracy float64) float64 {
	charAccuracy := 1.0 - cerCorrected
	if charAccuracy < 0 {
		charAccuracy = 0
	}
	wordAccuracy := 1.0 - werCorrected
	if wordAccuracy < 0 {
		wordAccuracy = 0
	}
	return charAccuracy*charAccuracyWeight + wordAccuracy*wordAccuracyWeight + diarizationAccuracy*diarizationWeight
}
