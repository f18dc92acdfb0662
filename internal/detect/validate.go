package detect

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shelfsnap/shelfsnap/internal/providers"
	"github.com/shelfsnap/shelfsnap/internal/ratelimit"
	"github.com/shelfsnap/shelfsnap/internal/scan"
)

// SecondaryValidator re-checks ambiguous candidates with a second model
// round-trip. It is fail-open: any transport or parse failure returns the
// original candidate unmodified. Calls are paced through a token bucket to
// respect the remote service's rate limits.
type SecondaryValidator struct {
	provider     providers.Provider
	providerName string
	model        string
	limiter      *ratelimit.Limiter
}

// NewSecondaryValidator builds a validator sharing the detection client's
// provider configuration. requestsPerMinute bounds the validation call rate.
func NewSecondaryValidator(providerName, model string, requestsPerMinute int) (*SecondaryValidator, error) {
	if providerName == "" {
		providerName = providers.DefaultProvider()
	}
	if model == "" {
		model = providers.DefaultModel(providerName)
	}

	provider, err := newProvider(providerName)
	if err != nil {
		return nil, err
	}

	return &SecondaryValidator{
		provider:     provider,
		providerName: providerName,
		model:        model,
		limiter:      ratelimit.New(requestsPerMinute),
	}, nil
}

// Validate asks the model to confirm, correct, or reject one candidate.
// A rejected candidate is not dropped here: its confidence is forced to
// low so the downstream filter removes it, which keeps a record of what
// was rejected and why in the logs.
func (v *SecondaryValidator) Validate(ctx context.Context, candidate scan.BookCandidate) scan.BookCandidate {
	if err := v.limiter.Wait(ctx); err != nil {
		return candidate
	}

	reply, err := v.provider.Generate(ctx, providers.Config{
		Model:       v.model,
		Temperature: detectionTemperature,
		Prompt:      buildValidationPrompt(candidate),
	})
	if err != nil {
		slog.Warn("Validation request failed, keeping candidate as-is",
			"title", candidate.Title, "error", err)
		return candidate
	}

	verdict, err := decodeVerdict(reply)
	if err != nil {
		slog.Warn("Unparsable validation reply, keeping candidate as-is",
			"title", candidate.Title, "error", err)
		return candidate
	}

	if !verdict.IsValid {
		slog.Info("Candidate rejected by validator",
			"title", candidate.Title, "author", candidate.Author, "reason", verdict.Reason)
		candidate.Confidence = scan.ConfidenceLow
		return candidate
	}

	corrected := scan.BookCandidate{
		Title:      strings.TrimSpace(verdict.Title),
		Author:     strings.TrimSpace(verdict.Author),
		Confidence: scan.ParseConfidence(verdict.Confidence),
		ISBN:       candidate.ISBN,
	}
	if corrected.Title == "" {
		corrected.Title = candidate.Title
	}
	if corrected.Author == "" {
		corrected.Author = candidate.Author
	}

	return corrected
}
