package bingo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ColumnRanges(t *testing.T) {
	gen := NewGenerator(42)
	layout := gen.Generate()
	require.Len(t, layout, CellCount)

	for col := 0; col < GridSize; col++ {
		low, high := ColumnRange(col)
		seen := make(map[int]bool)
		for row := 0; row < GridSize; row++ {
			pos := row*GridSize + col
			cell := layout[pos]
			assert.Equal(t, pos, cell.Position)
			assert.Equal(t, columns[col], cell.Column)

			if pos == FreePosition {
				continue
			}
			require.NotNil(t, cell.Number, "position %d must have a number", pos)
			assert.GreaterOrEqual(t, *cell.Number, low)
			assert.LessOrEqual(t, *cell.Number, high)
			assert.False(t, seen[*cell.Number], "column %s repeats %d", cell.Column, *cell.Number)
			seen[*cell.Number] = true
		}
	}
}

func TestGenerate_FreeCell(t *testing.T) {
	gen := NewGenerator(7)
	layout := gen.Generate()

	free := layout[FreePosition]
	assert.True(t, free.IsFree)
	assert.True(t, free.IsMarked)
	assert.Nil(t, free.Number)
	assert.Equal(t, ColumnN, free.Column)

	for pos, cell := range layout {
		if pos == FreePosition {
			continue
		}
		assert.False(t, cell.IsFree, "position %d must not be free", pos)
		assert.False(t, cell.IsMarked, "position %d must start unmarked", pos)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := NewGenerator(99).Generate()
	b := NewGenerator(99).Generate()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestGenerateBatch_NoDuplicates(t *testing.T) {
	gen := NewGenerator(1)
	layouts, err := gen.GenerateBatch(50)
	require.NoError(t, err)
	require.Len(t, layouts, 50)

	seen := make(map[string]bool)
	for _, l := range layouts {
		fp := l.Fingerprint()
		assert.False(t, seen[fp], "duplicate layout in batch")
		seen[fp] = true
	}
}

// zeroSource makes the rng constant, so every layout comes out identical.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func TestGenerateBatch_StalledGeneratorErrors(t *testing.T) {
	gen := &Generator{rng: rand.New(zeroSource{})}

	layouts, err := gen.GenerateBatch(2)
	require.Error(t, err)
	assert.Nil(t, layouts)
}

func TestColumnAt(t *testing.T) {
	assert.Equal(t, ColumnB, ColumnAt(0))
	assert.Equal(t, ColumnI, ColumnAt(6))
	assert.Equal(t, ColumnN, ColumnAt(12))
	assert.Equal(t, ColumnG, ColumnAt(18))
	assert.Equal(t, ColumnO, ColumnAt(24))
}
