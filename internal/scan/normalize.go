package scan

import (
	"regexp"
	"strings"
)

// denyListPatterns match author strings the detection model is known to
// hallucinate: placeholder names, and fragments of cover text it has
// previously mis-attributed as authors.
var denyListPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^john\s+doe$`),
	regexp.MustCompile(`(?i)^jane\s+doe$`),
	regexp.MustCompile(`(?i)^lorem\s+ipsum`),
	regexp.MustCompile(`(?i)^author\s+(name|unknown)$`),
	regexp.MustCompile(`(?i)^unknown\s+author$`),
	regexp.MustCompile(`(?i)^sample\s+(author|text)$`),
	regexp.MustCompile(`(?i)^various(\s+authors)?$`),
	regexp.MustCompile(`(?i)^n/?a$`),
	regexp.MustCompile(`(?i)^(a|the)\s+novel$`),
	regexp.MustCompile(`(?i)best\s*sell(er|ing)`),
	regexp.MustCompile(`(?i)^new\s+york\s+times$`),
	regexp.MustCompile(`(?i)(anniversary|special|collector'?s)\s+edition$`),
}

// functionWords are the common English articles/prepositions/conjunctions
// that appear in book titles but essentially never inside a person's name.
var functionWords = map[string]bool{
	"the": true, "a": true, "an": true,
	"of": true, "and": true, "or": true,
	"in": true, "on": true, "at": true,
	"to": true, "for": true, "with": true,
	"from": true, "by": true, "is": true,
	"are": true, "was": true, "my": true,
	"your": true, "his": true, "her": true,
	"how": true, "what": true, "when": true,
}

// publisherPrefixes sometimes get read off a spine as part of the title.
var publisherPrefixes = []string{
	"Penguin Classics:",
	"Penguin Books:",
	"Penguin:",
	"Vintage Books:",
	"Vintage:",
	"Oxford World's Classics:",
	"Bantam Books:",
	"Del Rey:",
	"Tor Books:",
	"Harper Perennial:",
}

var (
	seriesMarkerRe    = regexp.MustCompile(`(?i)[\s,:-]*(#\d+|vol\.?\s*\d+|volume\s+\d+|book\s+\d+)$`)
	honorificSuffixRe = regexp.MustCompile(`(?i),?\s+(jr\.?|sr\.?|ii|iii|iv|esq\.?|ph\.?d\.?|m\.?d\.?)$`)
)

// ocrFixes maps substrings the vision model habitually garbles to their
// corrections. Applied verbatim to both fields after trimming.
var ocrFixes = map[string]string{
	"Tbe ":  "The ",
	"Tne ":  "The ",
	" 0f ":  " of ",
	" aud ": " and ",
	"vvh":   "wh",
	"’":     "'",
}

// matchesDenyList reports whether an author string is known garbage.
func matchesDenyList(author string) bool {
	author = strings.TrimSpace(author)
	for _, re := range denyListPatterns {
		if re.MatchString(author) {
			return true
		}
	}
	return false
}

// looksLikePersonName classifies free text as a plausible person name:
// two or three tokens, none of which is a function word.
func looksLikePersonName(s string) bool {
	tokens := strings.Fields(strings.TrimSpace(s))
	if len(tokens) < 2 || len(tokens) > 3 {
		return false
	}
	for _, tok := range tokens {
		if functionWords[strings.ToLower(strings.Trim(tok, ".,"))] {
			return false
		}
	}
	return true
}

// looksLikeTitle classifies free text as a plausible book title: it
// contains at least one function word.
func looksLikeTitle(s string) bool {
	for _, tok := range strings.Fields(s) {
		if functionWords[strings.ToLower(strings.Trim(tok, ".,:;!?"))] {
			return true
		}
	}
	return false
}

// Normalize cleans a single raw candidate. It returns the corrected
// candidate and true, or a zero candidate and false when the candidate is
// rejected outright. Normalization must run before deduplication so fuzzy
// matching operates on cleaned text.
func Normalize(policy Policy, c BookCandidate) (BookCandidate, bool) {
	if matchesDenyList(c.Author) {
		return BookCandidate{}, false
	}

	c.Title = strings.TrimSpace(c.Title)
	c.Author = strings.TrimSpace(c.Author)

	// The model frequently reads the large spine text (the title) into the
	// author field and vice versa.
	switch {
	case looksLikePersonName(c.Title) && looksLikeTitle(c.Author):
		c.Title, c.Author = c.Author, c.Title
	case looksLikePersonName(c.Title) && !looksLikePersonName(c.Author) &&
		len(c.Author) > len(c.Title)+policy.SwapLengthDelta:
		// The longer field is usually the real title.
		c.Title, c.Author = c.Author, c.Title
	}

	c.Title = cleanTitle(c.Title)
	c.Author = cleanAuthor(c.Author)
	if c.Author == "" {
		c.Author = UnknownAuthor
	}

	c.Confidence = regrade(c)

	return c, true
}

func cleanTitle(title string) string {
	for _, prefix := range publisherPrefixes {
		if strings.HasPrefix(title, prefix) {
			title = strings.TrimSpace(strings.TrimPrefix(title, prefix))
			break
		}
	}
	title = seriesMarkerRe.ReplaceAllString(title, "")
	title = applyOCRFixes(title)
	return strings.TrimSpace(title)
}

func cleanAuthor(author string) string {
	author = honorificSuffixRe.ReplaceAllString(author, "")
	author = applyOCRFixes(author)
	return strings.TrimSpace(author)
}

func applyOCRFixes(s string) string {
	for bad, good := range ocrFixes {
		s = strings.ReplaceAll(s, bad, good)
	}
	return s
}

// regrade downgrades confidence for candidates whose cleaned fields no
// longer justify the grade the model assigned.
func regrade(c BookCandidate) Confidence {
	confidence := c.Confidence
	letters := len(strings.ReplaceAll(c.Title, " ", ""))

	switch {
	case confidence == ConfidenceHigh && letters < 2:
		confidence = ConfidenceMedium
	case confidence == ConfidenceMedium && letters < 3:
		confidence = ConfidenceLow
	}
	if confidence == ConfidenceHigh && matchesDenyList(c.Author) {
		confidence = ConfidenceLow
	}

	return confidence
}
