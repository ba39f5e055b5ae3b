package extract

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var formatWeight = map[string]float64{
	FormatMP4:  2000,
	FormatM3U8: 1000,
}

// Score ranks a candidate. Format outweighs any resolution, resolution outweighs
// any realistic length penalty, and shorter URLs win ties.
func Score(c Candidate) float64 {
	score := formatWeight[c.Kind()]
	score += float64(lo.Min([]int{c.Height(), 2160})) / 10
	score -= 0.01 * float64(len(c.URL))
	return score
}

// Select returns the highest scoring candidate.
func Select(candidates []Candidate) mo.Option[Candidate] {
	if len(candidates) == 0 {
		return mo.None[Candidate]()
	}

	return mo.Some(lo.MaxBy(candidates, func(a, b Candidate) bool {
		return Score(a) > Score(b)
	}))
}
