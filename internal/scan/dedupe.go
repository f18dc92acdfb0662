package scan

import "strings"

// Deduplicate merges near-identical candidates across sections and passes.
// Order matters: the input arrives sorted by section priority, the first
// occurrence of a book wins, and later near-duplicates are discarded.
//
// Two candidates are duplicates when ANY of several heuristics fires. The
// redundancy is deliberate: OCR noise and re-detection across overlapping
// sections produce duplicates that differ in ways no single metric catches,
// so recall is favored over precision and the occasional false merge is
// accepted as the lesser error versus a cluttered result.
func Deduplicate(policy Policy, candidates []BookCandidate) []BookCandidate {
	unique := make([]BookCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		duplicate := false
		for _, kept := range unique {
			if isDuplicate(policy, kept, candidate) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, candidate)
		}
	}

	return unique
}

func isDuplicate(policy Policy, a, b BookCandidate) bool {
	titleA := strings.ToLower(strings.TrimSpace(a.Title))
	titleB := strings.ToLower(strings.TrimSpace(b.Title))

	if titleA == titleB {
		return true
	}

	wordsA := strings.Fields(titleA)
	wordsB := strings.Fields(titleB)

	gap := len(wordsA) - len(wordsB)
	if gap < 0 {
		gap = -gap
	}
	if gap <= policy.MaxWordCountGap &&
		titleSimilarity(wordsA, wordsB) >= policy.TitleSimilarity {
		return true
	}

	shorter := titleA
	if len(titleB) < len(shorter) {
		shorter = titleB
	}
	if len(shorter) > policy.MinSubstringTitleLen &&
		(strings.Contains(titleA, titleB) || strings.Contains(titleB, titleA)) {
		return true
	}

	// Same non-placeholder author plus loosely similar titles is usually
	// the same spine read twice.
	if a.HasAuthor() && b.HasAuthor() &&
		strings.EqualFold(strings.TrimSpace(a.Author), strings.TrimSpace(b.Author)) &&
		titleSimilarity(wordsA, wordsB) > policy.AuthorSimilarity {
		return true
	}

	return false
}

// titleSimilarity scores word overlap between two lowercased titles:
// exact word matches count 1, partial (substring) matches between words
// longer than 3 characters count 0.5, normalized by the larger word count.
func titleSimilarity(wordsA, wordsB []string) float64 {
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	matched := make([]bool, len(wordsB))
	var score float64

	for _, wa := range wordsA {
		for i, wb := range wordsB {
			if matched[i] {
				continue
			}
			if wa == wb {
				score += 1
				matched[i] = true
				break
			}
			if len(wa) > 3 && len(wb) > 3 &&
				(strings.Contains(wa, wb) || strings.Contains(wb, wa)) {
				score += 0.5
				matched[i] = true
				break
			}
		}
	}

	maxWords := len(wordsA)
	if len(wordsB) > maxWords {
		maxWords = len(wordsB)
	}

	return score / float64(maxWords)
}
