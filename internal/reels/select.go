package reels

import "sort"

const (
	// DefaultTopN is the maximum number of segments per reel.
	DefaultTopN = 5

	// ReelCount is the fixed number of reels attempted per run.
	ReelCount = 3
)

// SelectGroups ranks segments by importance and partitions the ranking into
// ReelCount consecutive, non-overlapping bands of up to topN segments each.
// Each band is re-sorted chronologically for playback. Bands past the end of
// the ranking come back empty.
func SelectGroups(segments []ScoredSegment, topN int) [][]ScoredSegment {
	if topN <= 0 {
		topN = DefaultTopN
	}

	ranked := make([]ScoredSegment, len(segments))
	copy(ranked, segments)
	// Stable sort so score ties keep their chronological order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	groups := make([][]ScoredSegment, 0, ReelCount)
	for i := 0; i < ReelCount; i++ {
		lo := i * topN
		hi := lo + topN
		if lo > len(ranked) {
			lo = len(ranked)
		}
		if hi > len(ranked) {
			hi = len(ranked)
		}

		group := make([]ScoredSegment, hi-lo)
		copy(group, ranked[lo:hi])
		sort.SliceStable(group, func(a, b int) bool {
			return group[a].Start < group[b].Start
		})
		groups = append(groups, group)
	}

	return groups
}
