package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shelfsnap/shelfsnap/internal/detect"
	"github.com/shelfsnap/shelfsnap/internal/library"
	"github.com/shelfsnap/shelfsnap/internal/queue"
	"github.com/shelfsnap/shelfsnap/internal/scan"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var provider string
	var model string
	var grid string
	var policyPath string
	var output string
	var noValidate bool
	var validationRPM int

	cmd := &cobra.Command{
		Use:   "scan [image...]",
		Short: "Scan one or more bookshelf photos",
		Long: `Runs each photo through the scan pipeline and prints the final ranked book
list. Multiple images are queued and processed one at a time.

With --grid the image is examined in overlapping sections, center first;
the default is a single whole-image pass for latency.`,
		Example: `  # Scan one photo with the default provider (Ollama)
  shelfsnap scan shelf.jpg

  # Scan with Gemini in 2x2 sections and export to Parquet
  shelfsnap scan shelf.jpg --provider gemini --grid 2x2 --output books.parquet

  # Scan several photos with tuned policy thresholds
  shelfsnap scan a.jpg b.jpg --policy policy.yaml --output books.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gridX, gridY, err := parseGrid(grid)
			if err != nil {
				return err
			}

			policy := scan.DefaultPolicy()
			if policyPath != "" {
				policy, err = scan.LoadPolicy(policyPath)
				if err != nil {
					return err
				}
			}

			detector, err := detect.NewClient(provider, model)
			if err != nil {
				return err
			}

			var validator scan.Validator
			if !noValidate {
				secondary, err := detect.NewSecondaryValidator(provider, model, validationRPM)
				if err != nil {
					return err
				}
				validator = secondary
			}

			store := library.NewMemoryStore()
			pipeline := scan.NewPipeline(policy, detector, validator)
			orchestrator := queue.New(cmd.Context(), pipeline, store, queue.Options{
				GridX: gridX,
				GridY: gridY,
			})

			for _, image := range args {
				orchestrator.Submit(image)
			}
			orchestrator.Wait()

			records := store.List()
			for _, record := range records {
				fmt.Printf("%s: %d books\n", record.ImageRef, len(record.Books))
				for _, book := range record.Books {
					fmt.Printf("  [%s] %s by %s\n", book.Confidence, book.Title, book.Author)
				}
			}

			if output != "" {
				if err := library.Export(output, records); err != nil {
					return err
				}
				slog.Info("Exported scan results", "path", output, "scans", len(records))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: gemini, openai, or ollama (default from SHELFSNAP_PROVIDER)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default per provider)")
	cmd.Flags().StringVar(&grid, "grid", "1x1", "Section grid, e.g. 2x2 or 4x3")
	cmd.Flags().StringVar(&policyPath, "policy", "", "Path to a YAML policy file overriding pipeline thresholds")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Export results to a .parquet, .jsonl, or .yaml file")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip secondary validation round-trips")
	cmd.Flags().IntVar(&validationRPM, "validation-rpm", 30, "Max secondary-validation requests per minute")

	return cmd
}

// parseGrid parses "CxR" grid dimensions like "2x2" or "4x3".
func parseGrid(grid string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(grid)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid grid %q (expected e.g. 2x2)", grid)
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q: %w", grid, err)
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q: %w", grid, err)
	}
	if x < 1 || y < 1 {
		return 0, 0, fmt.Errorf("invalid grid %q: dimensions must be at least 1", grid)
	}
	return x, y, nil
}
