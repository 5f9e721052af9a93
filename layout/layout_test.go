package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seating-chart-server-go/models"
)

func sampleLayout(t *testing.T) models.ClassroomLayout {
	t.Helper()
	var l models.ClassroomLayout
	for _, c := range []int{4, 2, 2, 1} {
		var err error
		l, _, err = AddTable(l, c, 10, 20)
		require.NoError(t, err)
	}
	return l
}

func tableIDs(l models.ClassroomLayout) []string {
	ids := make([]string, len(l.Tables))
	for i, t := range l.Tables {
		ids[i] = t.ID
	}
	return ids
}

func TestNewTable(t *testing.T) {
	for _, c := range []int{1, 2, 4} {
		tbl, err := NewTable(c, 1, 2)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(tbl.ID, "table-"))
		assert.Equal(t, c, tbl.Capacity)
		require.Len(t, tbl.StudentSlots, c)
		for i, s := range tbl.StudentSlots {
			assert.Equal(t, tbl.ID+"-slot-"+string(rune('0'+i)), s.ID)
			assert.False(t, s.Occupied())
		}
	}

	for _, c := range []int{0, 3, 5, -1} {
		_, err := NewTable(c, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	}
}

func TestGroupTables(t *testing.T) {
	l := sampleLayout(t)
	ids := tableIDs(l)

	t.Run("needs two existing tables", func(t *testing.T) {
		_, _, err := GroupTables(l, []string{ids[0], "nope", ids[0]}, "")
		assert.ErrorIs(t, err, ErrGroupTooSmall)
	})

	t.Run("regrouping moves tables out of old groups", func(t *testing.T) {
		l1, first, err := GroupTables(l, []string{ids[0], ids[1]}, "front")
		require.NoError(t, err)
		assert.Equal(t, "front", first.Name)
		assert.Empty(t, l.TableGroups, "input must not change")

		l2, second, err := GroupTables(l1, []string{ids[1], ids[2]}, "")
		require.NoError(t, err)
		require.Len(t, l2.TableGroups, 2)
		assert.Equal(t, []string{ids[0]}, l2.TableGroups[0].TableIDs)
		assert.Equal(t, second.ID, l2.TableGroups[1].ID)

		l3, _, err := GroupTables(l2, []string{ids[0], ids[3]}, "")
		require.NoError(t, err)
		require.Len(t, l3.TableGroups, 2, "emptied group is dropped")
		assert.Equal(t, []string{ids[1], ids[2]}, l3.TableGroups[0].TableIDs)
	})
}

func TestUngroupTables(t *testing.T) {
	l := sampleLayout(t)
	ids := tableIDs(l)
	l, _, err := GroupTables(l, []string{ids[0], ids[1], ids[2]}, "")
	require.NoError(t, err)

	_, _, err = UngroupTables(l, []string{ids[3]})
	assert.ErrorIs(t, err, ErrNotGrouped)

	out, n, err := UngroupTables(l, []string{ids[0], ids[1]})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, out.TableGroups, 1)
	assert.Equal(t, []string{ids[2]}, out.TableGroups[0].TableIDs)

	out, _, err = UngroupTables(out, []string{ids[2]})
	require.NoError(t, err)
	assert.Empty(t, out.TableGroups)
}

func TestRemoveItems(t *testing.T) {
	l := sampleLayout(t)
	ids := tableIDs(l)
	l, _, err := GroupTables(l, []string{ids[0], ids[1]}, "")
	require.NoError(t, err)
	l, err = PlaceTeacherDesk(l, 5, 5)
	require.NoError(t, err)

	_, _, err = RemoveItems(l, nil)
	assert.ErrorIs(t, err, ErrNothingSelected)

	out, n, err := RemoveItems(l, []string{ids[0], ids[1], l.TeacherDesk.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, ids[2:], tableIDs(out))
	assert.Nil(t, out.TeacherDesk)
	assert.Empty(t, out.TableGroups)
	assert.Len(t, l.Tables, 4, "input must not change")
}

func TestPlaceTeacherDesk(t *testing.T) {
	l, err := PlaceTeacherDesk(models.ClassroomLayout{}, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, l.TeacherDesk)
	assert.True(t, strings.HasPrefix(l.TeacherDesk.ID, "desk-"))

	_, err = PlaceTeacherDesk(l, 3, 4)
	assert.ErrorIs(t, err, ErrDeskExists)
}

func TestClearAssignments(t *testing.T) {
	l := sampleLayout(t)
	id := "s1"
	l.Tables[0].StudentSlots[2].StudentID = &id

	out := ClearAssignments(l.Tables)

	for _, tbl := range out {
		for _, s := range tbl.StudentSlots {
			assert.False(t, s.Occupied())
		}
	}
	assert.True(t, l.Tables[0].StudentSlots[2].Occupied())
}
