package bingo

// prizeFractions maps each pattern to its share of the game's prize pool.
// Static configuration: lines and corners pay small, shapes pay more, full
// card pays half the pool.
var prizeFractions = map[PatternName]float64{
	LineHorizontal1: 0.10,
	LineHorizontal2: 0.10,
	LineHorizontal3: 0.10,
	LineHorizontal4: 0.10,
	LineHorizontal5: 0.10,
	LineVerticalB:   0.10,
	LineVerticalI:   0.10,
	LineVerticalN:   0.10,
	LineVerticalG:   0.10,
	LineVerticalO:   0.10,
	DiagonalMain:    0.10,
	DiagonalAnti:    0.10,
	FourCorners:     0.10,
	ShapeX:          0.25,
	ShapeT:          0.25,
	ShapeL:          0.25,
	FullCard:        0.50,
}

// PrizeFraction returns the payout fraction for a pattern, 0 for unknown.
func PrizeFraction(name PatternName) float64 {
	return prizeFractions[name]
}

// Prize computes the payout for winning a pattern out of a total pool.
func Prize(name PatternName, pool float64) float64 {
	return pool * PrizeFraction(name)
}
