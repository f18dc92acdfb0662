package scan

import (
	"context"
	"log/slog"
	"strings"
)

// Detector examines one image (optionally scoped to a region for context)
// and returns raw candidates. Implementations absorb every failure and
// return an empty slice instead: partial shelf coverage beats aborting the
// whole scan, so a failed section simply contributes zero candidates.
type Detector interface {
	Detect(ctx context.Context, image []byte, region Region) []BookCandidate
}

// Validator re-checks one ambiguous candidate against the remote model.
// Implementations are fail-open: on any error the original candidate comes
// back unmodified.
type Validator interface {
	Validate(ctx context.Context, candidate BookCandidate) BookCandidate
}

// ProgressFunc receives (current, total) after every section processed.
type ProgressFunc func(current, total int)

// Pipeline drives one image through the full sequence: section planning,
// detection, normalization, deduplication, selective validation, ranking.
// It holds no per-scan state and is safe to reuse across jobs.
type Pipeline struct {
	policy    Policy
	detector  Detector
	validator Validator
}

// NewPipeline assembles a pipeline. The validator may be nil, in which case
// the secondary-validation stage is skipped entirely.
func NewPipeline(policy Policy, detector Detector, validator Validator) *Pipeline {
	return &Pipeline{
		policy:    policy,
		detector:  detector,
		validator: validator,
	}
}

// Scan runs the full pipeline over one image. Sections are processed
// sequentially, highest priority first, to keep the progress counter
// meaningful and to avoid bursting the remote service. The grid defaults
// to a single whole-image pass when dimensions are below 1.
func (p *Pipeline) Scan(ctx context.Context, image []byte, sectionsX, sectionsY int, progress ProgressFunc) []BookCandidate {
	regions := PlanSections(sectionsX, sectionsY)

	var normalized []BookCandidate
	for i, region := range regions {
		raw := p.detector.Detect(ctx, image, region)
		for _, candidate := range raw {
			cleaned, ok := Normalize(p.policy, candidate)
			if !ok {
				slog.Debug("Rejected candidate", "title", candidate.Title, "author", candidate.Author)
				continue
			}
			normalized = append(normalized, cleaned)
		}
		if progress != nil {
			progress(i+1, len(regions))
		}
	}

	unique := Deduplicate(p.policy, normalized)

	if p.validator != nil {
		for i, candidate := range unique {
			if !NeedsValidation(p.policy, candidate) {
				continue
			}
			unique[i] = p.validator.Validate(ctx, candidate)
		}
	}

	final := RankAndFilter(p.policy, unique)
	slog.Info("Scan pipeline finished",
		"sections", len(regions),
		"raw", len(normalized),
		"unique", len(unique),
		"final", len(final))

	return final
}

// NeedsValidation gates the expensive secondary round-trips: only
// candidates that are still ambiguous after normalization go back to the
// model.
func NeedsValidation(policy Policy, c BookCandidate) bool {
	if c.Confidence == ConfidenceLow {
		return true
	}
	if !c.HasAuthor() {
		return true
	}
	title := strings.TrimSpace(c.Title)
	if len(title) < policy.ShortTitleValidationLen {
		return true
	}
	return len(strings.Fields(title)) == 1
}
