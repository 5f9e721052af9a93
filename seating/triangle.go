package seating

import (
	"cmp"
	"slices"

	"seating-chart-server-go/models"
)

const trioSize = 3

// michaelsTriangle seats as many weak/strong/strong trios as fit, then the
// rest of the roster. It returns the number of trios seated.
func (r *run) michaelsTriangle(roster []models.Student) int {
	var weak, strong []models.Student
	for _, s := range roster {
		if !r.seatable(s) {
			continue
		}
		switch {
		case s.EnglishAbility == models.EnglishAbilityLow:
			weak = append(weak, s)
		case s.EnglishAbility >= models.EnglishAbilityStrongMin && s.EnglishAbility <= models.EnglishAbilityStrongMax:
			strong = append(strong, s)
		}
	}

	triangles := 0
	for _, w := range weak {
		if r.isAssigned(w.ID) {
			continue
		}

		same, ok := r.firstStrong(strong, func(s models.Student) bool {
			return s.ID != w.ID && s.Nationality == w.Nationality
		})
		if !ok {
			continue
		}
		// A missing second partner leaves same free for a later trio.
		other, ok := r.firstStrong(strong, func(s models.Student) bool {
			return s.ID != w.ID && s.ID != same.ID && s.Nationality != w.Nationality
		})
		if !ok {
			continue
		}

		if r.placeTrio([]models.Student{w, same, other}) {
			triangles++
		}
	}

	r.fillGroupedThenUngrouped(r.remaining(roster))
	return triangles
}

func (r *run) firstStrong(pool []models.Student, match func(models.Student) bool) (models.Student, bool) {
	for _, s := range pool {
		if r.seatable(s) && match(s) {
			return s, true
		}
	}
	return models.Student{}, false
}

// placeTrio seats trio on three seats of one group, or failing that of one
// ungrouped table, largest tables first. Trios are never split across
// ungrouped tables; when nothing has room the trio stays unplaced.
func (r *run) placeTrio(trio []models.Student) bool {
	for _, members := range shuffled(r.rng, r.groups) {
		if r.placeOn(trio, members) {
			return true
		}
	}

	var candidates []int
	for _, ti := range r.ungrouped {
		if r.tables[ti].EmptySeats() >= trioSize {
			candidates = append(candidates, ti)
		}
	}
	slices.SortStableFunc(candidates, func(a, b int) int {
		return cmp.Compare(r.tables[b].Capacity, r.tables[a].Capacity)
	})
	for _, ti := range candidates {
		if r.placeOn(trio, []int{ti}) {
			return true
		}
	}
	return false
}

func (r *run) placeOn(trio []models.Student, tableIdx []int) bool {
	slots := r.emptySlots(tableIdx)
	if len(slots) < trioSize {
		return false
	}
	return r.fill(trio, shuffled(r.rng, slots)[:trioSize]) == trioSize
}
