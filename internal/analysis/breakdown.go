// Package analysis holds the pieces shared by both financial models: ordered
// cost breakdowns, sensitivity sweeps and named scenarios.
package analysis

// Line is one named amount in a breakdown.
type Line struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Breakdown is an ordered list of lines with their total. Total is always
// summed in line order.
type Breakdown struct {
	Lines []Line  `json:"lines"`
	Total float64 `json:"total"`
}

// NewBreakdown builds a breakdown from lines, summing them in order.
func NewBreakdown(lines ...Line) Breakdown {
	total := 0.0
	for _, l := range lines {
		total += l.Amount
	}
	return Breakdown{Lines: lines, Total: total}
}

// Amount returns the amount of the named line.
func (b Breakdown) Amount(name string) (float64, bool) {
	for _, l := range b.Lines {
		if l.Name == name {
			return l.Amount, true
		}
	}
	return 0, false
}

// Names returns the line names in order.
func (b Breakdown) Names() []string {
	names := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		names[i] = l.Name
	}
	return names
}

// Largest returns the line with the greatest amount and the line with the
// smallest. ok is false for an empty breakdown.
func (b Breakdown) Largest() (largest, smallest Line, ok bool) {
	if len(b.Lines) == 0 {
		return Line{}, Line{}, false
	}
	largest, smallest = b.Lines[0], b.Lines[0]
	for _, l := range b.Lines[1:] {
		if l.Amount > largest.Amount {
			largest = l
		}
		if l.Amount < smallest.Amount {
			smallest = l
		}
	}
	return largest, smallest, true
}
