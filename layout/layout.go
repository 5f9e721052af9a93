// Package layout holds the discrete editing operations on a classroom
// layout: adding and removing tables, grouping, the teacher desk and
// clearing seat assignments. All functions return new values and leave
// their arguments untouched.
package layout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"seating-chart-server-go/models"
)

var (
	ErrInvalidCapacity = errors.New("table capacity must be 1, 2 or 4")
	ErrNothingSelected = errors.New("no items selected")
	ErrGroupTooSmall   = errors.New("at least two tables are needed to form a group")
	ErrNotGrouped      = errors.New("none of the selected tables is in a group")
	ErrDeskExists      = errors.New("teacher desk already exists")
)

// ValidCapacity reports whether a table may have n seats.
func ValidCapacity(n int) bool {
	return n == 1 || n == 2 || n == 4
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NewTable builds an empty table at (x, y).
func NewTable(capacity int, x, y float64) (models.Table, error) {
	if !ValidCapacity(capacity) {
		return models.Table{}, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	id := newID("table")
	slots := make([]models.Seat, capacity)
	for i := range slots {
		slots[i] = models.Seat{ID: fmt.Sprintf("%s-slot-%d", id, i)}
	}
	return models.Table{ID: id, X: x, Y: y, Capacity: capacity, StudentSlots: slots}, nil
}

// AddTable appends a new table to l.
func AddTable(l models.ClassroomLayout, capacity int, x, y float64) (models.ClassroomLayout, models.Table, error) {
	t, err := NewTable(capacity, x, y)
	if err != nil {
		return l, models.Table{}, err
	}
	out := clone(l)
	out.Tables = append(out.Tables, t)
	return out, t, nil
}

// RemoveItems drops the listed tables, and the teacher desk when its ID is
// listed. Removed tables leave their groups; groups left empty disappear.
// It returns the new layout and the number of items removed.
func RemoveItems(l models.ClassroomLayout, ids []string) (models.ClassroomLayout, int, error) {
	if len(ids) == 0 {
		return l, 0, ErrNothingSelected
	}
	out := clone(l)
	removed := 0

	out.Tables = slices.DeleteFunc(out.Tables, func(t models.Table) bool {
		if slices.Contains(ids, t.ID) {
			removed++
			return true
		}
		return false
	})
	if out.TeacherDesk != nil && slices.Contains(ids, out.TeacherDesk.ID) {
		out.TeacherDesk = nil
		removed++
	}
	out.TableGroups = pruneGroups(out.TableGroups, ids)
	return out, removed, nil
}

// GroupTables makes the listed existing tables one new group, taking them
// out of any group they were in before.
func GroupTables(l models.ClassroomLayout, ids []string, name string) (models.ClassroomLayout, models.TableGroup, error) {
	var members []string
	for _, id := range ids {
		if hasTable(l, id) && !slices.Contains(members, id) {
			members = append(members, id)
		}
	}
	if len(members) < 2 {
		return l, models.TableGroup{}, ErrGroupTooSmall
	}

	out := clone(l)
	group := models.TableGroup{ID: newID("group"), TableIDs: members, Name: name}
	out.TableGroups = append(pruneGroups(out.TableGroups, members), group)
	return out, group, nil
}

// UngroupTables takes the listed tables out of their groups and returns how
// many tables were ungrouped.
func UngroupTables(l models.ClassroomLayout, ids []string) (models.ClassroomLayout, int, error) {
	var grouped []string
	for _, id := range ids {
		if hasTable(l, id) && groupOf(l.TableGroups, id) >= 0 && !slices.Contains(grouped, id) {
			grouped = append(grouped, id)
		}
	}
	if len(grouped) == 0 {
		return l, 0, ErrNotGrouped
	}

	out := clone(l)
	out.TableGroups = pruneGroups(out.TableGroups, grouped)
	return out, len(grouped), nil
}

// PlaceTeacherDesk adds the single teacher desk.
func PlaceTeacherDesk(l models.ClassroomLayout, x, y float64) (models.ClassroomLayout, error) {
	if l.TeacherDesk != nil {
		return l, ErrDeskExists
	}
	out := clone(l)
	out.TeacherDesk = &models.TeacherDesk{ID: newID("desk"), X: x, Y: y}
	return out, nil
}

// ClearAssignments returns a copy of tables with every seat empty.
func ClearAssignments(tables []models.Table) []models.Table {
	out := make([]models.Table, len(tables))
	for i, t := range tables {
		out[i] = t
		out[i].StudentSlots = make([]models.Seat, len(t.StudentSlots))
		for j, s := range t.StudentSlots {
			out[i].StudentSlots[j] = models.Seat{ID: s.ID}
		}
	}
	return out
}

// pruneGroups removes ids from every group and drops groups left empty.
func pruneGroups(groups []models.TableGroup, ids []string) []models.TableGroup {
	out := make([]models.TableGroup, 0, len(groups))
	for _, g := range groups {
		kept := slices.DeleteFunc(slices.Clone(g.TableIDs), func(id string) bool {
			return slices.Contains(ids, id)
		})
		if len(kept) == 0 {
			continue
		}
		g.TableIDs = kept
		out = append(out, g)
	}
	return out
}

func hasTable(l models.ClassroomLayout, id string) bool {
	return slices.ContainsFunc(l.Tables, func(t models.Table) bool { return t.ID == id })
}

func groupOf(groups []models.TableGroup, tableID string) int {
	return slices.IndexFunc(groups, func(g models.TableGroup) bool {
		return slices.Contains(g.TableIDs, tableID)
	})
}

func clone(l models.ClassroomLayout) models.ClassroomLayout {
	out := models.ClassroomLayout{
		Tables:      make([]models.Table, len(l.Tables)),
		TableGroups: make([]models.TableGroup, len(l.TableGroups)),
	}
	for i, t := range l.Tables {
		out.Tables[i] = t
		out.Tables[i].StudentSlots = slices.Clone(t.StudentSlots)
	}
	for i, g := range l.TableGroups {
		out.TableGroups[i] = g
		out.TableGroups[i].TableIDs = slices.Clone(g.TableIDs)
	}
	if l.TeacherDesk != nil {
		desk := *l.TeacherDesk
		out.TeacherDesk = &desk
	}
	return out
}
