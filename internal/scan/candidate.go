package scan

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Confidence grades how sure the detection model is about a candidate.
// The total order is High > Medium > Low.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// ParseConfidence converts a free-form confidence string from the model
// into a Confidence. Unrecognized values map to medium so a sloppy reply
// neither inflates nor buries a candidate.
func ParseConfidence(value string) Confidence {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high":
		return ConfidenceHigh
	case "medium", "med":
		return ConfidenceMedium
	case "low":
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON encodes the confidence as its lowercase name.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts the lowercase names produced by the detection model.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseConfidence(s)
	return nil
}

// MarshalYAML encodes the confidence as its lowercase name.
func (c Confidence) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML accepts the lowercase confidence names.
func (c *Confidence) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*c = ParseConfidence(s)
	return nil
}

// UnknownAuthor is the sentinel used when the model could not read an author.
const UnknownAuthor = "Unknown"

// BookCandidate is one provisional book detection. The normalizer and the
// secondary validator correct its fields; once a candidate enters the
// deduplicated set it is only ever replaced wholesale, never patched.
type BookCandidate struct {
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Confidence Confidence `json:"confidence"`
	ISBN       string     `json:"isbn,omitempty"`
}

// HasAuthor reports whether the candidate carries a usable author name.
func (b BookCandidate) HasAuthor() bool {
	author := strings.TrimSpace(b.Author)
	return author != "" && !strings.EqualFold(author, UnknownAuthor)
}
