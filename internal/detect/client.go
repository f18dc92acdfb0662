package detect

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/shelfsnap/shelfsnap/internal/gemini"
	"github.com/shelfsnap/shelfsnap/internal/ollama"
	"github.com/shelfsnap/shelfsnap/internal/openai"
	"github.com/shelfsnap/shelfsnap/internal/providers"
	"github.com/shelfsnap/shelfsnap/internal/scan"
)

// detectionTemperature is kept low for consistent, factual spine readings.
const detectionTemperature = 0.1

// Client sends one image plus a natural-language task description to a
// vision-capable model and parses the reply into raw candidates. It never
// propagates an error to its caller: a failed or unparsable section
// degrades to zero candidates, because partial shelf coverage is preferable
// to aborting the whole scan.
type Client struct {
	provider     providers.Provider
	providerName string
	model        string
}

// NewClient resolves the named provider ("gemini", "openai" or "ollama")
// and model, falling back to environment defaults when blank.
func NewClient(providerName, model string) (*Client, error) {
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

	return &Client{
		provider:     provider,
		providerName: providerName,
		model:        model,
	}, nil
}

func newProvider(name string) (providers.Provider, error) {
	switch name {
	case "gemini":
		return gemini.New(), nil
	case "openai":
		return openai.New(), nil
	case "ollama":
		return ollama.New(), nil
	default:
		return nil, &UnsupportedProviderError{Name: name}
	}
}

// UnsupportedProviderError reports a provider name nothing implements.
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return "unsupported provider: " + e.Name
}

// Detect runs one detection pass over the image with the region as scan
// context. Transport failures are retried once, then absorbed.
func (c *Client) Detect(ctx context.Context, image []byte, region scan.Region) []scan.BookCandidate {
	config := providers.Config{
		Model:       c.model,
		Temperature: detectionTemperature,
		Prompt:      buildDetectionPrompt(region),
		Images:      [][]byte{image},
	}

	var reply string
	err := retry.Do(
		func() error {
			var genErr error
			reply, genErr = c.provider.Generate(ctx, config)
			return genErr
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(time.Second),
	)
	if err != nil {
		slog.Warn("Detection request failed, section contributes no candidates",
			"provider", c.providerName, "model", c.model,
			"row", region.Row, "col", region.Col, "error", err)
		return nil
	}

	candidates, err := decodeCandidates(reply)
	if err != nil {
		slog.Warn("Unparsable detection reply, section contributes no candidates",
			"provider", c.providerName, "model", c.model,
			"row", region.Row, "col", region.Col, "error", err)
		return nil
	}

	slog.Debug("Detection pass complete",
		"row", region.Row, "col", region.Col, "candidates", len(candidates))
	return candidates
}
