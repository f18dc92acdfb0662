package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelfsnap",
		Short: "Turn bookshelf photos into ranked book lists with vision LLMs",
		Long: `Shelfsnap ingests a photograph of a bookshelf and produces a deduplicated,
confidence-ranked list of book records (title, author, identifier).

Detection is delegated to a vision-capable LLM (Gemini, OpenAI, or Ollama);
shelfsnap plans how the image is examined, aggregates and deduplicates raw
detections, applies heuristic and secondary-model correction, and filters
and ranks the result.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
