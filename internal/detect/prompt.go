package detect

import (
	"fmt"

	"github.com/shelfsnap/shelfsnap/internal/scan"
)

// buildDetectionPrompt produces the task description for one detection
// pass. When the region does not cover the whole image, positional context
// is appended so the model knows which part of the shelf it is reading.
func buildDetectionPrompt(region scan.Region) string {
	prompt := `You are an expert at reading book spines on bookshelf photographs.

Identify every book visible in the image. Read the spines in left-to-right
order. For each book report its title, its author, and how confident you
are in the reading.

RULES:
1. Read exactly what is printed on the spine. Do not invent books.
2. If the author is not readable, use "Unknown".
3. Confidence must be one of "high", "medium", or "low":
   - high: both title and author clearly legible
   - medium: title legible, author partially legible or inferred
   - low: title partially legible or inferred

OUTPUT FORMAT:
Respond with ONLY a JSON array, no prose, no markdown fences:

[{"title": "...", "author": "...", "confidence": "high"}]

Return [] if no books are visible.`

	if !isWholeImage(region) {
		emphasis := ""
		if region.Priority >= 0.7 {
			emphasis = "\nThis is a HIGH PRIORITY central section: spines here are usually the best lit, so read them carefully."
		}
		prompt += fmt.Sprintf(`

SECTION CONTEXT:
Focus on the shelf section at row %d, column %d of the grid (priority %.2f),
covering roughly x=%.0f%%..%.0f%% and y=%.0f%%..%.0f%% of the photo.
Sections overlap slightly with their neighbors, so a spine on a boundary may
appear in more than one section; report it anyway.%s`,
			region.Row, region.Col, region.Priority,
			region.X, region.X+region.Width,
			region.Y, region.Y+region.Height,
			emphasis)
	}

	return prompt
}

// buildValidationPrompt asks the model to judge one ambiguous candidate.
func buildValidationPrompt(candidate scan.BookCandidate) string {
	return fmt.Sprintf(`You are a bibliographic fact checker. A bookshelf scanner produced this
candidate book record, but the reading is uncertain:

  title:  %q
  author: %q

Judge whether this is plausibly a real published book. If the title and
author appear swapped or garbled by OCR, fix them.

OUTPUT FORMAT:
Respond with ONLY a JSON object, no prose, no markdown fences:

{"isValid": true, "title": "...", "author": "...", "confidence": "high", "reason": "..."}

Set isValid to false when the record does not correspond to a plausible
real book, and explain why in reason.`,
		candidate.Title, candidate.Author)
}

func isWholeImage(region scan.Region) bool {
	return region.Row == 0 && region.Col == 0 && region.Width >= 100 && region.Height >= 100
}
