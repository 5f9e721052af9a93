package seating

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seating-chart-server-go/models"
)

func seatedTogether(t *testing.T, tables []models.Table, ids ...string) {
	t.Helper()
	for _, tb := range tables {
		got := tableOccupants(tb)
		for _, id := range ids {
			if slices.Contains(got, id) {
				for _, other := range ids {
					require.Contains(t, got, other, "trio split across tables")
				}
				return
			}
		}
	}
	t.Fatalf("none of %v seated", ids)
}

func TestMichaelsTriangle_SeatsTrioAtSingleTable(t *testing.T) {
	students := []models.Student{
		student("weak", 1, "A"),
		student("same", 3, "A"),
		student("other", 4, "B"),
	}
	tables := []models.Table{table("t1", 4)}

	for i := 0; i < 50; i++ {
		out := Assign(students, tables, models.AlgorithmMichaelsTriangle, nil)

		requireWellFormed(t, students, tables, out)
		assert.ElementsMatch(t, []string{"weak", "same", "other"}, tableOccupants(out[0]))
		assert.Equal(t, 1, out[0].EmptySeats())
	}
}

func TestMichaelsTriangle_FourthSeatTakesUnrelatedStudent(t *testing.T) {
	students := []models.Student{
		student("weak", 1, "A"),
		student("same", 3, "A"),
		student("other", 4, "B"),
		student("middle", 2, "C"),
	}
	tables := []models.Table{table("t1", 4)}

	out := Assign(students, tables, models.AlgorithmMichaelsTriangle, nil)

	assert.ElementsMatch(t, []string{"weak", "same", "other", "middle"}, tableOccupants(out[0]))
}

func TestMichaelsTriangle_PrefersGroupsThenLargestTable(t *testing.T) {
	students := []models.Student{
		student("weak", 1, "A"),
		student("same", 4, "A"),
		student("other", 3, "B"),
	}

	t.Run("group with room wins over a free table", func(t *testing.T) {
		tables := []models.Table{table("loose", 4), table("g1", 2), table("g2", 2)}
		groups := []models.TableGroup{{ID: "g", TableIDs: []string{"g1", "g2"}}}

		for i := 0; i < 50; i++ {
			r := newRun(NewSeededRand(uint64(i)), tables, groups)
			n := r.michaelsTriangle(students)

			require.Equal(t, 1, n)
			assert.Empty(t, tableOccupants(r.tables[0]))
			assert.Len(t, occupants(r.tables[1:]), 3)
		}
	})

	t.Run("largest ungrouped table first", func(t *testing.T) {
		tables := []models.Table{table("small", 2), table("mid", 4), table("big", 4)}
		tables[1].Capacity = 3
		tables[1].StudentSlots = tables[1].StudentSlots[:3]

		r := newRun(NewSeededRand(3), tables, nil)
		n := r.michaelsTriangle(students)

		require.Equal(t, 1, n)
		assert.ElementsMatch(t, []string{"weak", "same", "other"}, tableOccupants(r.tables[2]))
	})
}

func TestMichaelsTriangle_NoPartnerFallsThrough(t *testing.T) {
	t.Run("no strong students at all", func(t *testing.T) {
		students := []models.Student{student("weak", 1, "A")}

		out := Assign(students, nil, models.AlgorithmMichaelsTriangle, nil)
		assert.Empty(t, out)

		r := newRun(NewSeededRand(1), []models.Table{table("t", 2)}, nil)
		assert.Equal(t, 0, r.michaelsTriangle(students))
		assert.Equal(t, []string{"weak"}, occupants(r.tables))
	})

	t.Run("same nationality partner is not held back", func(t *testing.T) {
		// weak-a finds same-a but no different-nationality partner;
		// same-a must still be available to the generic fill.
		students := []models.Student{
			student("weak-a", 1, "A"),
			student("same-a", 3, "A"),
			student("strong-a2", 4, "A"),
		}
		r := newRun(NewSeededRand(1), []models.Table{table("t", 4)}, nil)

		assert.Equal(t, 0, r.michaelsTriangle(students))
		assert.ElementsMatch(t, []string{"weak-a", "same-a", "strong-a2"}, occupants(r.tables))
	})

	t.Run("later weak student finds the pool used up", func(t *testing.T) {
		students := []models.Student{
			student("weak-1", 1, "A"),
			student("weak-2", 1, "A"),
			student("a1", 3, "A"),
			student("b1", 4, "B"),
			student("a2", 3, "A"),
		}
		tables := []models.Table{table("t1", 4), table("t2", 4)}
		r := newRun(NewSeededRand(1), tables, nil)

		// weak-1 takes a1 and b1; weak-2 then finds a2 but nobody else.
		assert.Equal(t, 1, r.michaelsTriangle(students))
		seatedTogether(t, r.tables, "weak-1", "a1", "b1")
		assert.Len(t, occupants(r.tables), 5)
	})
}

func TestMichaelsTriangle_NoSplitAcrossSmallTables(t *testing.T) {
	students := []models.Student{
		student("weak", 1, "A"),
		student("same", 3, "A"),
		student("other", 4, "B"),
	}
	tables := []models.Table{table("p1", 2), table("p2", 2), table("solo", 1)}
	r := newRun(NewSeededRand(9), tables, nil)

	assert.Equal(t, 0, r.michaelsTriangle(students))
	assert.Len(t, occupants(r.tables), 3)
}

func TestMichaelsTriangle_IgnoresAbilityTwoAndFive(t *testing.T) {
	students := []models.Student{
		student("weak", 1, "A"),
		student("same", 2, "A"),
		student("other", 5, "B"),
	}
	r := newRun(NewSeededRand(5), []models.Table{table("t", 4)}, nil)

	assert.Equal(t, 0, r.michaelsTriangle(students))
	assert.Len(t, occupants(r.tables), 3)
}
