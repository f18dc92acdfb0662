package detect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shelfsnap/shelfsnap/internal/scan"
)

// rawCandidate mirrors the detection contract before confidence parsing.
type rawCandidate struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Confidence string `json:"confidence"`
	ISBN       string `json:"isbn"`
}

// verdict is the secondary-validation reply contract.
type verdict struct {
	IsValid    bool   `json:"isValid"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// stripFences removes markdown code fences the way the model tends to emit
// them: a leading ```json or ``` line and a trailing ``` line.
func stripFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// firstBalanced returns the first balanced open...close span in text, or ""
// when none closes. The model is asked for bare JSON but routinely wraps it
// in prose, and that prose can itself contain brackets, so a greedy grab to
// the last delimiter is not safe. Delimiters inside JSON string literals
// are skipped.
func firstBalanced(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// decodeCandidates coerces a free-form detection reply into candidates.
// Fences are stripped first; if the remainder is not a clean JSON value
// (prose before or after the list), the first balanced [...] span is
// extracted and parsed instead. Returns an error only when no candidate
// list can be recovered at all.
func decodeCandidates(response string) ([]scan.BookCandidate, error) {
	text := stripFences(response)

	var raw []rawCandidate
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		// Some models wrap the list in an envelope object.
		var envelope struct {
			Books []rawCandidate `json:"books"`
		}
		if envErr := json.Unmarshal([]byte(text), &envelope); envErr == nil && envelope.Books != nil {
			raw = envelope.Books
		} else if extracted := firstBalanced(text, '[', ']'); extracted != "" {
			if exErr := json.Unmarshal([]byte(extracted), &raw); exErr != nil {
				return nil, fmt.Errorf("failed to parse candidate list: %w", err)
			}
		} else {
			return nil, fmt.Errorf("no JSON array found in response")
		}
	}

	candidates := make([]scan.BookCandidate, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		author := strings.TrimSpace(r.Author)
		if author == "" {
			author = scan.UnknownAuthor
		}
		candidates = append(candidates, scan.BookCandidate{
			Title:      strings.TrimSpace(r.Title),
			Author:     author,
			Confidence: scan.ParseConfidence(r.Confidence),
			ISBN:       strings.TrimSpace(r.ISBN),
		})
	}

	return candidates, nil
}

// decodeVerdict coerces a free-form validation reply into a verdict.
func decodeVerdict(response string) (verdict, error) {
	text := stripFences(response)

	var v verdict
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		extracted := firstBalanced(text, '{', '}')
		if extracted == "" {
			return verdict{}, fmt.Errorf("no JSON object found in response")
		}
		if exErr := json.Unmarshal([]byte(extracted), &v); exErr != nil {
			return verdict{}, fmt.Errorf("failed to parse validation verdict: %w", exErr)
		}
	}

	return v, nil
}
