package scan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy collects the empirically-tuned constants the pipeline runs on.
// The defaults reproduce the tuning the heuristics were calibrated with,
// but none of them are fixed truths: they were fit to one shelf corpus and
// may misfire on title/author pairs outside it, so they are exposed as
// configuration rather than hard-coded.
type Policy struct {
	// TitleSimilarity is the fuzzy-match threshold above which two titles
	// with comparable word counts are considered the same book.
	TitleSimilarity float64 `yaml:"title_similarity"`

	// AuthorSimilarity is the looser title threshold applied when two
	// candidates already share an author.
	AuthorSimilarity float64 `yaml:"author_similarity"`

	// MaxWordCountGap bounds how far apart two titles' word counts may be
	// for the fuzzy title rule to apply at all.
	MaxWordCountGap int `yaml:"max_word_count_gap"`

	// SwapLengthDelta is how many characters longer the author field must
	// be than the title field before the length-based swap heuristic fires.
	SwapLengthDelta int `yaml:"swap_length_delta"`

	// MinSubstringTitleLen is the shortest title allowed to trigger the
	// substring dedup rule; anything shorter matches too much.
	MinSubstringTitleLen int `yaml:"min_substring_title_len"`

	// ShortTitleValidationLen flags titles shorter than this for secondary
	// validation.
	ShortTitleValidationLen int `yaml:"short_title_validation_len"`

	// MinMediumTitleLen and MinLowTitleLen gate which medium/low confidence
	// candidates survive the final filter.
	MinMediumTitleLen int `yaml:"min_medium_title_len"`
	MinLowTitleLen    int `yaml:"min_low_title_len"`
}

// DefaultPolicy returns the thresholds the pipeline was tuned with.
func DefaultPolicy() Policy {
	return Policy{
		TitleSimilarity:         0.70,
		AuthorSimilarity:        0.50,
		MaxWordCountGap:         2,
		SwapLengthDelta:         5,
		MinSubstringTitleLen:    2,
		ShortTitleValidationLen: 3,
		MinMediumTitleLen:       3,
		MinLowTitleLen:          5,
	}
}

// LoadPolicy reads a policy file, filling unset fields from the defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read policy file: %w", err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse policy file: %w", err)
	}

	return policy, nil
}
