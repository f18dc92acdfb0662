package providers

import (
	"context"
	"os"
)

// Config represents one request to a vision-capable LLM provider.
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// Images are raw (not yet base64-encoded) image payloads; each provider
	// encodes them the way its API expects.
	Images [][]byte
}

// Provider defines the interface for a vision-capable LLM provider.
type Provider interface {
	Generate(ctx context.Context, config Config) (string, error)
}

// DefaultModel returns the default model for a provider, overridable via
// environment.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		if model := os.Getenv("OPENAI_MODEL"); model != "" {
			return model
		}
		return "gpt-4o"
	case "gemini":
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-1.5-flash"
	case "ollama":
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "llama3.2-vision"
	default:
		return ""
	}
}

// DefaultProvider resolves the provider name from the environment, falling
// back to ollama so the tool works without any API keys.
func DefaultProvider() string {
	if provider := os.Getenv("SHELFSNAP_PROVIDER"); provider != "" {
		return provider
	}
	return "ollama"
}
