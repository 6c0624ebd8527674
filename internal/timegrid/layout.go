package timegrid

import "sort"

// Interval is one appointment's time range reduced to minutes since midnight,
// tagged with the appointment's identifier. End is exclusive.
type Interval struct {
	ID    string
	Start int
	End   int
}

// Overlaps reports whether two intervals share any time. Touching endpoints
// do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Placement is the grid position computed for one interval: a 1-indexed
// starting row, the number of rows spanned, and a column assignment within
// the interval's overlap group.
type Placement struct {
	Row         int
	Span        int
	Column      int
	ColumnCount int
}

// BlockRange is a contiguous run of grid blocks, both bounds inclusive.
type BlockRange struct {
	StartBlock int
	EndBlock   int
}

// BlockIndex maps a wall-clock time to its 1-indexed grid block within the
// window. Times outside the window clamp to the nearest valid block so a
// misconfigured appointment still renders instead of vanishing.
func BlockIndex(t string, w Window) (int, error) {
	minutes, err := ToMinutes(t)
	if err != nil {
		return 0, err
	}
	return blockIndexAt(minutes, w), nil
}

func blockIndexAt(minutes int, w Window) int {
	index := (minutes-w.StartMinutes)/w.BlockDuration + 1
	if index < 1 {
		return 1
	}
	if index > w.TotalBlocks {
		return w.TotalBlocks
	}
	return index
}

// BlockSpan returns the number of grid blocks an appointment occupies,
// rounding partial blocks up. A zero or negative duration still spans one
// block so the entry stays visible.
func BlockSpan(start, end string) (int, error) {
	startMinutes, err := ToMinutes(start)
	if err != nil {
		return 0, err
	}
	endMinutes, err := ToMinutes(end)
	if err != nil {
		return 0, err
	}
	return blockSpanOf(startMinutes, endMinutes), nil
}

func blockSpanOf(start, end int) int {
	duration := end - start
	if duration <= 0 {
		return 1
	}
	return (duration + BlockDuration - 1) / BlockDuration
}

// GroupOverlaps partitions a day's intervals into maximal clusters whose
// members transitively overlap. Intervals are swept in start order; a
// candidate joins the current group when it overlaps any member accumulated
// so far, not just the immediately preceding one. A group therefore never
// splits once opened, which keeps every visually contiguous cluster in a
// single group even when its edge members are pairwise disjoint.
func GroupOverlaps(intervals []Interval) [][]Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	groups := make([][]Interval, 0, len(sorted))
	current := []Interval{sorted[0]}

	for _, candidate := range sorted[1:] {
		joined := false
		for _, member := range current {
			if member.Overlaps(candidate) {
				joined = true
				break
			}
		}
		if joined {
			current = append(current, candidate)
			continue
		}
		groups = append(groups, current)
		current = []Interval{candidate}
	}

	return append(groups, current)
}

// LayoutDay computes non-occluding grid positions for a day's intervals.
// Members of an overlap group share the day column equally: each gets a
// distinct column index and a column count equal to the group size, so column
// width is the reciprocal of the cluster's cardinality. A singleton group
// reports a single full-width column.
func LayoutDay(intervals []Interval, w Window) map[string]Placement {
	placements := make(map[string]Placement, len(intervals))

	for _, group := range GroupOverlaps(intervals) {
		for column, interval := range group {
			placements[interval.ID] = Placement{
				Row:         blockIndexAt(interval.Start, w),
				Span:        blockSpanOf(interval.Start, interval.End),
				Column:      column,
				ColumnCount: len(group),
			}
		}
	}

	return placements
}

// NonWorkingRanges returns the full-width blocker ranges that shade time
// outside the window's working hours. A non-workday is shaded edge to edge.
func NonWorkingRanges(w Window, workday bool) []BlockRange {
	if !workday {
		return []BlockRange{{StartBlock: 1, EndBlock: w.TotalBlocks}}
	}

	var ranges []BlockRange

	workingStartMinutes, err := ToMinutes(w.WorkingStart)
	if err != nil {
		return ranges
	}
	workingEndMinutes, err := endExclusiveMinutes(w.WorkingEnd)
	if err != nil {
		return ranges
	}

	workingStartBlock := blockIndexAt(workingStartMinutes, w)
	if workingStartBlock > 1 {
		ranges = append(ranges, BlockRange{StartBlock: 1, EndBlock: workingStartBlock - 1})
	}

	workingEndBlock := (workingEndMinutes-w.StartMinutes)/w.BlockDuration + 1
	if workingEndBlock <= w.TotalBlocks {
		ranges = append(ranges, BlockRange{StartBlock: workingEndBlock, EndBlock: w.TotalBlocks})
	}

	return ranges
}
