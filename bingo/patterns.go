package bingo

// PatternName identifies one of the statically enumerated winning patterns.
type PatternName string

const (
	LineHorizontal1 PatternName = "LINE_HORIZONTAL_1"
	LineHorizontal2 PatternName = "LINE_HORIZONTAL_2"
	LineHorizontal3 PatternName = "LINE_HORIZONTAL_3"
	LineHorizontal4 PatternName = "LINE_HORIZONTAL_4"
	LineHorizontal5 PatternName = "LINE_HORIZONTAL_5"
	LineVerticalB   PatternName = "LINE_VERTICAL_B"
	LineVerticalI   PatternName = "LINE_VERTICAL_I"
	LineVerticalN   PatternName = "LINE_VERTICAL_N"
	LineVerticalG   PatternName = "LINE_VERTICAL_G"
	LineVerticalO   PatternName = "LINE_VERTICAL_O"
	DiagonalMain    PatternName = "DIAGONAL_MAIN"
	DiagonalAnti    PatternName = "DIAGONAL_ANTI"
	FourCorners     PatternName = "FOUR_CORNERS"
	FullCard        PatternName = "FULL_CARD"
	ShapeX          PatternName = "X"
	ShapeT          PatternName = "T"
	ShapeL          PatternName = "L"
)

// Pattern is a named, fixed set of cell positions that must all be marked.
// The free cell always counts as marked.
type Pattern struct {
	Name      PatternName `json:"name"`
	Positions []int       `json:"positions"`
}

func rowPositions(row int) []int {
	out := make([]int, 0, GridSize)
	for col := 0; col < GridSize; col++ {
		out = append(out, row*GridSize+col)
	}
	return out
}

func colPositions(col int) []int {
	out := make([]int, 0, GridSize)
	for row := 0; row < GridSize; row++ {
		out = append(out, row*GridSize+col)
	}
	return out
}

func union(sets ...[]int) []int {
	seen := make(map[int]bool)
	out := []int{}
	for _, s := range sets {
		for _, p := range s {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

func allPositions() []int {
	out := make([]int, CellCount)
	for i := range out {
		out[i] = i
	}
	return out
}

var (
	diagMain = []int{0, 6, 12, 18, 24}
	diagAnti = []int{4, 8, 12, 16, 20}
)

// patterns is the full table in evaluation order.
var patterns = []Pattern{
	{LineHorizontal1, rowPositions(0)},
	{LineHorizontal2, rowPositions(1)},
	{LineHorizontal3, rowPositions(2)},
	{LineHorizontal4, rowPositions(3)},
	{LineHorizontal5, rowPositions(4)},
	{LineVerticalB, colPositions(0)},
	{LineVerticalI, colPositions(1)},
	{LineVerticalN, colPositions(2)},
	{LineVerticalG, colPositions(3)},
	{LineVerticalO, colPositions(4)},
	{DiagonalMain, diagMain},
	{DiagonalAnti, diagAnti},
	{FourCorners, []int{0, 4, 20, 24}},
	{ShapeX, union(diagMain, diagAnti)},
	{ShapeT, union(rowPositions(0), colPositions(2))},
	{ShapeL, union(colPositions(0), rowPositions(4))},
	{FullCard, allPositions()},
}

// Patterns returns the pattern table in stable order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// PatternByName looks up a pattern; ok is false for an unknown name.
func PatternByName(name PatternName) (Pattern, bool) {
	for _, p := range patterns {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// Satisfied reports whether every required position is marked. The free
// cell counts as marked regardless of its flag.
func (p Pattern) Satisfied(cells CardLayout) bool {
	for _, pos := range p.Positions {
		cell := cells[pos]
		if cell.IsFree {
			continue
		}
		if !cell.IsMarked {
			return false
		}
	}
	return true
}

// SatisfiedByDrawn evaluates against the drawn-ball set instead of the mark
// flags, so a claim cannot rest on marks the draw sequence never backed.
func (p Pattern) SatisfiedByDrawn(cells CardLayout, drawn map[int]bool) bool {
	for _, pos := range p.Positions {
		cell := cells[pos]
		if cell.IsFree {
			continue
		}
		if cell.Number == nil || !drawn[*cell.Number] {
			return false
		}
	}
	return true
}

// SatisfiedPatterns returns the names of all patterns currently satisfied,
// in table order. The caller picks the pattern that matters for the round.
func SatisfiedPatterns(cells CardLayout) []PatternName {
	var out []PatternName
	for _, p := range patterns {
		if p.Satisfied(cells) {
			out = append(out, p.Name)
		}
	}
	return out
}
