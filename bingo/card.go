package bingo

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

const (
	GridSize     = 5
	CellCount    = 25
	FreePosition = 12
	MaxBall      = 75

	// each column owns a block of 15 numbers: B 1-15, I 16-30, ...
	numbersPerColumn = 15
)

type Column string

const (
	ColumnB Column = "B"
	ColumnI Column = "I"
	ColumnN Column = "N"
	ColumnG Column = "G"
	ColumnO Column = "O"
)

var columns = [GridSize]Column{ColumnB, ColumnI, ColumnN, ColumnG, ColumnO}

// ColumnAt returns the column letter for a cell position (row-major grid).
func ColumnAt(position int) Column {
	return columns[position%GridSize]
}

// ColumnRange returns the inclusive number range owned by a column index.
func ColumnRange(col int) (low, high int) {
	low = col*numbersPerColumn + 1
	return low, low + numbersPerColumn - 1
}

// Cell is one of the 25 positions on a card. Number is nil only for the
// center free cell, which is always marked.
type Cell struct {
	Position int    `json:"position"`
	Column   Column `json:"column"`
	Number   *int   `json:"number"`
	IsFree   bool   `json:"isFree"`
	IsMarked bool   `json:"isMarked"`
}

// CardLayout holds the 25 cells of a card in row-major order.
type CardLayout []Cell

// Fingerprint identifies a layout by its numbers, for duplicate detection
// within a purchase batch.
func (l CardLayout) Fingerprint() string {
	var b strings.Builder
	for _, c := range l {
		if c.Number == nil {
			b.WriteString("F,")
			continue
		}
		b.WriteString(strconv.Itoa(*c.Number))
		b.WriteByte(',')
	}
	return b.String()
}

// Generator produces card layouts using seed-based random logic.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) shuffle(nums []int) {
	for i := len(nums) - 1; i >= 1; i-- {
		j := g.rng.Intn(i + 1)
		nums[i], nums[j] = nums[j], nums[i]
	}
}

// columnNumbers shuffles a column's 15-number range and takes the first 5,
// so the column's numbers are distinct by construction.
func (g *Generator) columnNumbers(col int) []int {
	low, high := ColumnRange(col)
	nums := make([]int, 0, numbersPerColumn)
	for n := low; n <= high; n++ {
		nums = append(nums, n)
	}
	g.shuffle(nums)
	return nums[:GridSize]
}

// Generate builds one structurally valid layout: per-column ranges, center
// free cell pre-marked.
func (g *Generator) Generate() CardLayout {
	cells := make(CardLayout, CellCount)
	for col := 0; col < GridSize; col++ {
		nums := g.columnNumbers(col)
		for row := 0; row < GridSize; row++ {
			pos := row*GridSize + col
			cells[pos] = Cell{Position: pos, Column: columns[col]}
			if pos == FreePosition {
				cells[pos].IsFree = true
				cells[pos].IsMarked = true
				continue
			}
			n := nums[row]
			cells[pos].Number = &n
		}
	}
	return cells
}

// GenerateBatch builds n layouts with no duplicate layout within the batch.
// It errors if the generator keeps producing collisions and cannot deliver
// all n.
func (g *Generator) GenerateBatch(n int) ([]CardLayout, error) {
	const maxRetries = 100

	layouts := make([]CardLayout, 0, n)
	seen := make(map[string]bool, n)
	retries := 0
	for len(layouts) < n {
		layout := g.Generate()
		fp := layout.Fingerprint()
		if seen[fp] {
			retries++
			if retries > maxRetries {
				return nil, fmt.Errorf("card generation stalled after %d duplicate layouts", retries)
			}
			continue
		}
		seen[fp] = true
		layouts = append(layouts, layout)
	}
	return layouts, nil
}
