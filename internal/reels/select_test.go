package reels

import (
	"sort"
	"testing"
)

func TestSelectGroups_BandsAndOrder(t *testing.T) {
	// 12 qualifying segments with distinct scores so the ranking is fixed.
	var segs []ScoredSegment
	for i := 0; i < 12; i++ {
		segs = append(segs, ScoredSegment{
			Text:  "segment",
			Start: float64(i * 10),
			End:   float64(i*10 + 5),
			Score: float64(12 - i),
		})
	}

	groups := SelectGroups(segs, 5)
	if len(groups) != ReelCount {
		t.Fatalf("expected %d groups, got %d", ReelCount, len(groups))
	}

	if len(groups[0]) != 5 || len(groups[1]) != 5 || len(groups[2]) != 2 {
		t.Fatalf("expected band sizes 5/5/2, got %d/%d/%d", len(groups[0]), len(groups[1]), len(groups[2]))
	}

	// Bands must be disjoint rank slices: group 0 holds scores 12..8,
	// group 1 holds 7..3, group 2 holds 2..1.
	seen := map[float64]int{}
	for gi, g := range groups {
		for _, s := range g {
			if prev, dup := seen[s.Score]; dup {
				t.Errorf("score %v appears in bands %d and %d", s.Score, prev, gi)
			}
			seen[s.Score] = gi
		}
	}
	for _, s := range groups[0] {
		if s.Score < 8 {
			t.Errorf("band 0 should hold top ranks, found score %v", s.Score)
		}
	}
	for _, s := range groups[2] {
		if s.Score > 2 {
			t.Errorf("band 2 should hold lowest ranks, found score %v", s.Score)
		}
	}

	// Within each band, playback order is chronological.
	for gi, g := range groups {
		if !sort.SliceIsSorted(g, func(a, b int) bool { return g[a].Start < g[b].Start }) {
			t.Errorf("band %d is not sorted by start time", gi)
		}
	}
}

func TestSelectGroups_FewerSegmentsThanBands(t *testing.T) {
	segs := []ScoredSegment{
		{Start: 5, End: 8, Score: 4},
		{Start: 1, End: 3, Score: 2},
	}

	groups := SelectGroups(segs, 5)
	if len(groups) != ReelCount {
		t.Fatalf("expected %d groups, got %d", ReelCount, len(groups))
	}
	if len(groups[0]) != 2 {
		t.Errorf("expected 2 segments in first band, got %d", len(groups[0]))
	}
	if len(groups[1]) != 0 || len(groups[2]) != 0 {
		t.Errorf("expected empty trailing bands, got %d and %d", len(groups[1]), len(groups[2]))
	}

	if groups[0][0].Start != 1 {
		t.Errorf("band should be chronological, first start = %v", groups[0][0].Start)
	}
}

func TestSelectGroups_TieKeepsChronologicalOrder(t *testing.T) {
	segs := []ScoredSegment{
		{Text: "first", Start: 0, End: 2, Score: 3},
		{Text: "second", Start: 10, End: 12, Score: 3},
		{Text: "third", Start: 20, End: 22, Score: 3},
	}

	groups := SelectGroups(segs, 5)
	g := groups[0]
	if len(g) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(g))
	}
	for i, want := range []string{"first", "second", "third"} {
		if g[i].Text != want {
			t.Errorf("position %d: got %q, want %q", i, g[i].Text, want)
		}
	}
}

func TestSelectGroups_Empty(t *testing.T) {
	groups := SelectGroups(nil, 5)
	if len(groups) != ReelCount {
		t.Fatalf("expected %d groups, got %d", ReelCount, len(groups))
	}
	for i, g := range groups {
		if len(g) != 0 {
			t.Errorf("band %d should be empty, got %d segments", i, len(g))
		}
	}
}
