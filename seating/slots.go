package seating

import "seating-chart-server-go/models"

// slotRef addresses one seat of the working table copy by index.
type slotRef struct {
	table int
	seat  int
}

// run is the mutable state of a single Assign call. It owns the cleared
// table copy and the set of already placed student IDs; every fill step
// writes through it and nothing else does.
type run struct {
	rng      Rand
	tables   []models.Table
	assigned map[string]struct{}

	grouped   []int   // indexes of tables that belong to some group
	ungrouped []int   // indexes of tables that belong to none
	groups    [][]int // member table indexes per input group, in table order
}

func newRun(rng Rand, tables []models.Table, groups []models.TableGroup) *run {
	r := &run{
		rng:      rng,
		tables:   clearedCopy(tables),
		assigned: make(map[string]struct{}),
	}
	r.partition(groups)
	return r
}

// clearedCopy deep-copies tables with every seat emptied.
func clearedCopy(tables []models.Table) []models.Table {
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

// partition splits the working tables by group membership. Group entries
// naming tables that are not in the layout are ignored.
func (r *run) partition(groups []models.TableGroup) {
	inAnyGroup := make(map[string]struct{})
	r.groups = make([][]int, len(groups))
	for gi, g := range groups {
		members := make(map[string]struct{}, len(g.TableIDs))
		for _, id := range g.TableIDs {
			members[id] = struct{}{}
			inAnyGroup[id] = struct{}{}
		}
		for ti, t := range r.tables {
			if _, ok := members[t.ID]; ok {
				r.groups[gi] = append(r.groups[gi], ti)
			}
		}
	}

	for ti, t := range r.tables {
		if _, ok := inAnyGroup[t.ID]; ok {
			r.grouped = append(r.grouped, ti)
		} else {
			r.ungrouped = append(r.ungrouped, ti)
		}
	}
}

// emptySlots lists the empty seats of the given tables in table-then-seat order.
func (r *run) emptySlots(tableIdx []int) []slotRef {
	var slots []slotRef
	for _, ti := range tableIdx {
		for si, s := range r.tables[ti].StudentSlots {
			if !s.Occupied() {
				slots = append(slots, slotRef{table: ti, seat: si})
			}
		}
	}
	return slots
}

func (r *run) allTables() []int {
	idx := make([]int, len(r.tables))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// seatable reports whether s may still take a seat. Students without an ID
// can never be recorded as an occupant.
func (r *run) seatable(s models.Student) bool {
	return s.ID != "" && !r.isAssigned(s.ID)
}

func (r *run) isAssigned(id string) bool {
	_, ok := r.assigned[id]
	return ok
}

// fill seats students into slots, both in order. Students already placed
// (or without an ID) are skipped without using up a slot; occupied slots
// are passed over. It returns the number of students seated.
func (r *run) fill(students []models.Student, slots []slotRef) int {
	placed, next := 0, 0
	for _, ref := range slots {
		for next < len(students) && !r.seatable(students[next]) {
			next++
		}
		if next >= len(students) {
			break
		}

		seat := &r.tables[ref.table].StudentSlots[ref.seat]
		if seat.Occupied() {
			continue
		}
		id := students[next].ID
		seat.StudentID = &id
		r.assigned[id] = struct{}{}
		next++
		placed++
	}
	return placed
}

// fillShuffled fills a shuffled list of the empty seats of tableIdx.
func (r *run) fillShuffled(students []models.Student, tableIdx []int) int {
	return r.fill(students, shuffled(r.rng, r.emptySlots(tableIdx)))
}

// remaining returns the students of roster not yet placed, order kept.
func (r *run) remaining(roster []models.Student) []models.Student {
	left := make([]models.Student, 0, len(roster))
	for _, s := range roster {
		if !r.isAssigned(s.ID) {
			left = append(left, s)
		}
	}
	return left
}
