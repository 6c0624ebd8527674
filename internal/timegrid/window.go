package timegrid

// Window is the buffered time range used to size a day's rendering grid. It
// extends the configured working hours by one hour in each direction, clamped
// to the day boundaries, and is shared by all seven days of a week so their
// grids stay visually aligned.
type Window struct {
	WorkingStart string
	WorkingEnd   string
	DisplayStart string
	DisplayEnd   string

	// StartMinutes and EndMinutes mirror the display bounds as minutes since
	// midnight. EndMinutes is exclusive and reaches MinutesPerDay when the
	// window touches midnight, which has no HH:mm representation of its own.
	StartMinutes int
	EndMinutes   int

	BlockDuration int
	TotalBlocks   int
}

// NewWindow builds a Window from working bounds given in minutes since
// midnight. The display range adds a one-hour buffer on each side, clamped to
// [0, MinutesPerDay].
func NewWindow(workingStart, workingEnd int) Window {
	displayStart := workingStart - 60
	if displayStart < 0 {
		displayStart = 0
	}
	displayEnd := workingEnd + 60
	if displayEnd > MinutesPerDay {
		displayEnd = MinutesPerDay
	}

	return Window{
		WorkingStart:  ToTimeString(workingStart),
		WorkingEnd:    ToTimeString(workingEnd),
		DisplayStart:  ToTimeString(displayStart),
		DisplayEnd:    ToTimeString(displayEnd),
		StartMinutes:  displayStart,
		EndMinutes:    displayEnd,
		BlockDuration: BlockDuration,
		TotalBlocks:   (displayEnd - displayStart) / BlockDuration,
	}
}

// BlockLabel pairs a 1-indexed grid block with its time label. Only blocks
// that start on the hour carry a label; the rest have an empty string.
type BlockLabel struct {
	Block int
	Label string
}

// BlockLabels produces one entry per grid block of the window, labelling the
// on-the-hour blocks with their HH:mm time.
func (w Window) BlockLabels() []BlockLabel {
	labels := make([]BlockLabel, 0, w.TotalBlocks)
	for i := 0; i < w.TotalBlocks; i++ {
		minutes := w.StartMinutes + i*w.BlockDuration
		label := BlockLabel{Block: i + 1}
		if minutes%60 == 0 {
			label.Label = ToTimeString(minutes)
		}
		labels = append(labels, label)
	}
	return labels
}
