package scan

import "sort"

// RankAndFilter is the final shaping pass. It drops survivors whose author
// still matches the deny-list, applies per-confidence title-length floors,
// and orders the rest by confidence then descriptiveness (longer titles are
// assumed more informative).
func RankAndFilter(policy Policy, candidates []BookCandidate) []BookCandidate {
	kept := make([]BookCandidate, 0, len(candidates))

	for _, c := range candidates {
		if matchesDenyList(c.Author) {
			continue
		}
		switch c.Confidence {
		case ConfidenceHigh:
			kept = append(kept, c)
		case ConfidenceMedium:
			if len(c.Title) >= policy.MinMediumTitleLen {
				kept = append(kept, c)
			}
		case ConfidenceLow:
			if len(c.Title) >= policy.MinLowTitleLen {
				kept = append(kept, c)
			}
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Confidence != kept[j].Confidence {
			return kept[i].Confidence > kept[j].Confidence
		}
		return len(kept[i].Title) > len(kept[j].Title)
	})

	return kept
}
