package scan

import (
	"math"
	"sort"
)

// Region describes one sub-area of the source photo handed to the detection
// model as positional context. All geometry is expressed as a percentage of
// the full image, never as pixels.
type Region struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Priority float64 `json:"priority"`
}

// overlapFraction is how much of a cell's size bleeds into its left/top
// neighbor so spines straddling a cell boundary get seen twice.
const overlapFraction = 0.10

// PlanSections partitions the image into an overlapping grid of regions,
// weighted so central cells carry the highest priority. The returned slice
// has length sectionsX*sectionsY and is sorted by descending priority:
// center-of-shelf sections are statistically the best lit and least
// occluded, so they are examined first.
//
// Pure and deterministic for fixed inputs. Grid dimensions below 1 are
// treated as 1.
func PlanSections(sectionsX, sectionsY int) []Region {
	if sectionsX < 1 {
		sectionsX = 1
	}
	if sectionsY < 1 {
		sectionsY = 1
	}

	cellW := 100.0 / float64(sectionsX)
	cellH := 100.0 / float64(sectionsY)

	centerCol := float64(sectionsX-1) / 2
	centerRow := float64(sectionsY-1) / 2
	maxDist := math.Hypot(centerCol, centerRow)

	regions := make([]Region, 0, sectionsX*sectionsY)
	for row := 0; row < sectionsY; row++ {
		for col := 0; col < sectionsX; col++ {
			x := float64(col) * cellW
			y := float64(row) * cellH
			width := cellW
			height := cellH

			// Bleed into the left/top neighbor where one exists.
			if col > 0 {
				x -= cellW * overlapFraction
				width += cellW * overlapFraction
			}
			if row > 0 {
				y -= cellH * overlapFraction
				height += cellH * overlapFraction
			}

			priority := 1.0
			if maxDist > 0 {
				dist := math.Hypot(float64(col)-centerCol, float64(row)-centerRow)
				priority = 1 - dist/maxDist
			}

			// High-priority cells get a more generous region.
			scale := 0.8 + 0.4*priority
			width *= scale
			height *= scale

			if x+width > 100 {
				width = 100 - x
			}
			if y+height > 100 {
				height = 100 - y
			}

			regions = append(regions, Region{
				X:        x,
				Y:        y,
				Width:    width,
				Height:   height,
				Row:      row,
				Col:      col,
				Priority: priority,
			})
		}
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Priority > regions[j].Priority
	})

	return regions
}
