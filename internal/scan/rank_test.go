package scan

import "testing"

func TestRankAndFilterThresholds(t *testing.T) {
	tests := []struct {
		name      string
		candidate BookCandidate
		kept      bool
	}{
		{
			name:      "high confidence always kept",
			candidate: BookCandidate{Title: "It", Author: "Stephen King", Confidence: ConfidenceHigh},
			kept:      true,
		},
		{
			name:      "medium with short title dropped",
			candidate: BookCandidate{Title: "It", Author: "Stephen King", Confidence: ConfidenceMedium},
			kept:      false,
		},
		{
			name:      "medium with adequate title kept",
			candidate: BookCandidate{Title: "Dune", Author: "Frank Herbert", Confidence: ConfidenceMedium},
			kept:      true,
		},
		{
			name:      "low with four-letter title dropped",
			candidate: BookCandidate{Title: "Dune", Author: "Frank Herbert", Confidence: ConfidenceLow},
			kept:      false,
		},
		{
			name:      "low with descriptive title kept",
			candidate: BookCandidate{Title: "The Dispossessed", Author: "Ursula Le Guin", Confidence: ConfidenceLow},
			kept:      true,
		},
		{
			name:      "deny-listed author dropped regardless of confidence",
			candidate: BookCandidate{Title: "A Perfectly Good Title", Author: "John Doe", Confidence: ConfidenceHigh},
			kept:      false,
		},
	}

	policy := DefaultPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RankAndFilter(policy, []BookCandidate{tt.candidate})
			if got := len(result) == 1; got != tt.kept {
				t.Errorf("kept=%v, want %v", got, tt.kept)
			}
		})
	}
}

func TestRankAndFilterOrdering(t *testing.T) {
	candidates := []BookCandidate{
		{Title: "Dune", Author: "Frank Herbert", Confidence: ConfidenceMedium},
		{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Confidence: ConfidenceHigh},
		{Title: "A Longer Low Confidence Title", Author: "Somebody Real", Confidence: ConfidenceLow},
		{Title: "Snow Crash", Author: "Neal Stephenson", Confidence: ConfidenceHigh},
		{Title: "The Left Hand of Darkness", Author: "Ursula Le Guin", Confidence: ConfidenceMedium},
	}

	result := RankAndFilter(DefaultPolicy(), candidates)

	if len(result) != len(candidates) {
		t.Fatalf("Expected all %d candidates kept, got %d", len(candidates), len(result))
	}

	for i := 1; i < len(result); i++ {
		prev, cur := result[i-1], result[i]
		if prev.Confidence < cur.Confidence {
			t.Errorf("Confidence not non-increasing at index %d: %s then %s", i, prev.Confidence, cur.Confidence)
		}
		if prev.Confidence == cur.Confidence && len(prev.Title) < len(cur.Title) {
			t.Errorf("Title length not non-increasing within confidence at index %d: %q then %q",
				i, prev.Title, cur.Title)
		}
	}

	// Longer titles are assumed more informative, so within the high band
	// the Tolkien comes first.
	if result[0].Title != "The Fellowship of the Ring" {
		t.Errorf("Expected longest high-confidence title first, got %q", result[0].Title)
	}
}
