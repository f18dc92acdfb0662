package scan

import (
	"context"
	"testing"
)

// fakeDetector returns a canned candidate list for every section.
type fakeDetector struct {
	perSection [][]BookCandidate
	calls      int
}

func (f *fakeDetector) Detect(_ context.Context, _ []byte, _ Region) []BookCandidate {
	f.calls++
	if len(f.perSection) == 0 {
		return nil
	}
	idx := f.calls - 1
	if idx >= len(f.perSection) {
		idx = len(f.perSection) - 1
	}
	return f.perSection[idx]
}

// fakeValidator records which candidates were flagged and applies a fixed
// transformation.
type fakeValidator struct {
	seen      []BookCandidate
	transform func(BookCandidate) BookCandidate
}

func (f *fakeValidator) Validate(_ context.Context, c BookCandidate) BookCandidate {
	f.seen = append(f.seen, c)
	if f.transform != nil {
		return f.transform(c)
	}
	return c
}

func TestPipelineEndToEnd(t *testing.T) {
	// Three raw candidates: two near-duplicates and one deny-listed author.
	detector := &fakeDetector{perSection: [][]BookCandidate{{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Confidence: ConfidenceHigh},
		{Title: "the hobbit", Author: "Tolkien", Confidence: ConfidenceMedium},
		{Title: "Completely Made Up", Author: "John Doe", Confidence: ConfidenceHigh},
	}}}

	pipeline := NewPipeline(DefaultPolicy(), detector, nil)
	result := pipeline.Scan(context.Background(), []byte("image"), 1, 1, nil)

	if len(result) != 1 {
		t.Fatalf("Expected exactly 1 final candidate, got %d", len(result))
	}
	if result[0].Title != "The Hobbit" {
		t.Errorf("Expected %q, got %q", "The Hobbit", result[0].Title)
	}
	if detector.calls != 1 {
		t.Errorf("Expected 1 detection pass for a 1x1 grid, got %d", detector.calls)
	}
}

func TestPipelineSectionedProgress(t *testing.T) {
	detector := &fakeDetector{}
	pipeline := NewPipeline(DefaultPolicy(), detector, nil)

	var updates [][2]int
	pipeline.Scan(context.Background(), []byte("image"), 2, 2, func(current, total int) {
		updates = append(updates, [2]int{current, total})
	})

	if detector.calls != 4 {
		t.Fatalf("Expected 4 detection passes for a 2x2 grid, got %d", detector.calls)
	}
	if len(updates) != 4 {
		t.Fatalf("Expected 4 progress updates, got %d", len(updates))
	}
	for i, update := range updates {
		if update[0] != i+1 || update[1] != 4 {
			t.Errorf("Update %d: got (%d,%d), want (%d,4)", i, update[0], update[1], i+1)
		}
	}
}

func TestPipelineValidatesOnlyAmbiguousCandidates(t *testing.T) {
	detector := &fakeDetector{perSection: [][]BookCandidate{{
		{Title: "The Name of the Wind", Author: "Patrick Rothfuss", Confidence: ConfidenceHigh},
		{Title: "Elantris Special Omnibus", Author: UnknownAuthor, Confidence: ConfidenceHigh},
	}}}
	validator := &fakeValidator{transform: func(c BookCandidate) BookCandidate {
		c.Author = "Brandon Sanderson"
		return c
	}}

	pipeline := NewPipeline(DefaultPolicy(), detector, validator)
	result := pipeline.Scan(context.Background(), []byte("image"), 1, 1, nil)

	if len(validator.seen) != 1 {
		t.Fatalf("Expected 1 validation round-trip, got %d", len(validator.seen))
	}
	if validator.seen[0].Title != "Elantris Special Omnibus" {
		t.Errorf("Wrong candidate validated: %q", validator.seen[0].Title)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 final candidates, got %d", len(result))
	}
	for _, book := range result {
		if book.Title == "Elantris Special Omnibus" && book.Author != "Brandon Sanderson" {
			t.Errorf("Validator correction not applied: author %q", book.Author)
		}
	}
}

func TestPipelineRejectedValidationFilteredOut(t *testing.T) {
	detector := &fakeDetector{perSection: [][]BookCandidate{{
		{Title: "Qzx", Author: UnknownAuthor, Confidence: ConfidenceLow},
	}}}
	// The validator rejects by forcing confidence low; the short title then
	// fails the low-confidence length floor.
	validator := &fakeValidator{transform: func(c BookCandidate) BookCandidate {
		c.Confidence = ConfidenceLow
		return c
	}}

	pipeline := NewPipeline(DefaultPolicy(), detector, validator)
	result := pipeline.Scan(context.Background(), []byte("image"), 1, 1, nil)

	if len(result) != 0 {
		t.Fatalf("Expected rejected candidate to be filtered out, got %d results", len(result))
	}
}

func TestNeedsValidation(t *testing.T) {
	tests := []struct {
		name      string
		candidate BookCandidate
		want      bool
	}{
		{
			name:      "low confidence",
			candidate: BookCandidate{Title: "The Stand", Author: "Stephen King", Confidence: ConfidenceLow},
			want:      true,
		},
		{
			name:      "unknown author",
			candidate: BookCandidate{Title: "The Stand Extended", Author: UnknownAuthor, Confidence: ConfidenceHigh},
			want:      true,
		},
		{
			name:      "very short title",
			candidate: BookCandidate{Title: "It", Author: "Stephen King", Confidence: ConfidenceHigh},
			want:      true,
		},
		{
			name:      "single-word title",
			candidate: BookCandidate{Title: "Misery", Author: "Stephen King", Confidence: ConfidenceHigh},
			want:      true,
		},
		{
			name:      "unambiguous candidate passes through",
			candidate: BookCandidate{Title: "The Stand", Author: "Stephen King", Confidence: ConfidenceHigh},
			want:      false,
		},
	}

	policy := DefaultPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsValidation(policy, tt.candidate); got != tt.want {
				t.Errorf("NeedsValidation(%+v) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}
