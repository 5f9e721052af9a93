package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seating-chart-server-go/models"
)

func TestSummarize(t *testing.T) {
	students := mixedRoster(5)
	tables := []models.Table{table("a", 2), table("b", 1)}

	out := NewEngine(WithSeed(11)).Assign(students, tables, models.AlgorithmRandomized, nil)
	sum := Summarize(students, out)

	assert.Equal(t, 3, sum.TotalSeats)
	assert.Equal(t, 3, sum.Seated)
	assert.Equal(t, 0, sum.EmptySeats)
	assert.Len(t, sum.Unseated, 2)
	for _, id := range sum.Unseated {
		assert.NotContains(t, occupants(out), id)
	}
}

func TestSummarize_EmptyLayout(t *testing.T) {
	sum := Summarize(nil, nil)

	assert.Equal(t, Summary{Unseated: []string{}}, sum)
}
