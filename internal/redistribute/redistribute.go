// Package redistribute swaps a teacher's taught blocks into back-to-back
// open/study-hall pairs to reduce adjacency issues, then rebuilds the
// grade grids wholly from the teacher grids.
package redistribute

import (
	"github.com/noah-isme/k11-scheduler/internal/gradeparser"
	"github.com/noah-isme/k11-scheduler/internal/models"
	"github.com/noah-isme/k11-scheduler/internal/rules"
)

const maxIterations = 2000

// Run performs the redistribution pass when no_btb_open is enabled,
// mutating teacherGrids in place, and always returns a fresh projection
// of the grade grids (never incrementally patched) so any transient
// inconsistency from the swaps is washed out.
func Run(teacherGrids map[string]models.TeacherGrid, teachers []models.Teacher, rulesSet rules.Set, grades models.GradeSet) map[string]models.GradeGrid {
	if !rulesSet.NoBackToBackOpen() {
		return rebuildGradeGrids(teacherGrids, grades)
	}

	gradeGrids := rebuildGradeGrids(teacherGrids, grades)
	iterations := 0

	for iterations < maxIterations {
		swapped := false
		for _, t := range teachers {
			if !t.IsFullTime() {
				continue
			}
			if iterations >= maxIterations {
				break
			}
			if trySwap(teacherGrids, gradeGrids, t.Name, rulesSet, grades) {
				swapped = true
				iterations++
			}
		}
		if !swapped {
			break
		}
	}

	return rebuildGradeGrids(teacherGrids, grades)
}

func trySwap(teacherGrids map[string]models.TeacherGrid, gradeGrids map[string]models.GradeGrid, teacher string, rulesSet rules.Set, grades models.GradeSet) bool {
	grid := teacherGrids[teacher]
	target, ok := firstBackToBackSecondSlot(grid)
	if !ok {
		return false
	}

	for origin, cell := range grid {
		if cell == nil || isOpenOrStudyHall(cell) || origin == target {
			continue
		}
		if !validSwap(grid, gradeGrids, origin, target, *cell, rulesSet, grades) {
			continue
		}
		performSwap(teacherGrids, gradeGrids, teacher, origin, target, *cell, grades)
		return true
	}
	return false
}

// firstBackToBackSecondSlot returns the second slot of the first
// back-to-back (open-or-study-hall) pair found scanning day-major,
// block-minor.
func firstBackToBackSecondSlot(grid models.TeacherGrid) (int, bool) {
	for d := 0; d < len(models.DayNames); d++ {
		for b := 0; b < len(models.Blocks)-1; b++ {
			s1 := models.Slot(d, b)
			s2 := models.Slot(d, b+1)
			if isOpenOrStudyHall(grid[s1]) && isOpenOrStudyHall(grid[s2]) {
				return s2, true
			}
		}
	}
	return 0, false
}

func isOpenOrStudyHall(cell *models.TeacherCell) bool {
	return cell != nil && (cell.Subject == models.SubjectOpen || cell.Subject == models.SubjectStudyHall)
}

// validSwap checks the three conditions from the redistribution design:
// the vacated origin cell must not form a new back-to-back pair with its
// own neighbors once it goes idle; every grade taught by the moved entry
// must be free at the destination; and, when no_duplicate_subjects is on,
// no other block on the destination's day may already host the same
// subject for any of those grades.
func validSwap(grid models.TeacherGrid, gradeGrids map[string]models.GradeGrid, origin, target int, cell models.TeacherCell, rulesSet rules.Set, grades models.GradeSet) bool {
	if createsNewBackToBackAtOrigin(grid, origin, target) {
		return false
	}

	destDay := models.DayOf(target)
	for _, g := range gradeparser.Parse(cell.GradeDisplay, grades) {
		if gradeGrids[g][target] != nil {
			return false
		}
		if rulesSet.NoDuplicateSubjects() && sameSubjectElsewhereOnDay(gradeGrids[g], destDay, origin, cell.Subject) {
			return false
		}
	}
	return true
}

// createsNewBackToBackAtOrigin simulates the origin cell going idle and
// reports whether either of its same-day neighbors is also idle — i.e.
// whether clearing it would introduce a fresh back-to-back pair.
func createsNewBackToBackAtOrigin(grid models.TeacherGrid, origin, target int) bool {
	day := models.DayOf(origin)
	block := models.BlockOf(origin)

	check := func(neighbor int) bool {
		if models.DayOf(neighbor) != day {
			return false
		}
		if neighbor == target {
			// target becomes taught by this same swap, so it can never
			// count as idle post-swap.
			return false
		}
		return isOpenOrStudyHall(grid[neighbor])
	}

	if block > 0 && check(models.Slot(day, block-1)) {
		return true
	}
	if block < len(models.Blocks)-1 && check(models.Slot(day, block+1)) {
		return true
	}
	return false
}

func sameSubjectElsewhereOnDay(grid models.GradeGrid, day, excludeSlot int, subject string) bool {
	for slot, cell := range grid {
		if slot == excludeSlot || cell == nil {
			continue
		}
		if models.DayOf(slot) != day {
			continue
		}
		if cell.Subject == subject {
			return true
		}
	}
	return false
}

func performSwap(teacherGrids map[string]models.TeacherGrid, gradeGrids map[string]models.GradeGrid, teacher string, origin, target int, moved models.TeacherCell, grades models.GradeSet) {
	grid := teacherGrids[teacher]
	grid[origin] = &models.TeacherCell{Subject: models.SubjectOpen}
	movedCopy := moved
	grid[target] = &movedCopy
	teacherGrids[teacher] = grid

	for _, g := range gradeparser.Parse(moved.GradeDisplay, grades) {
		gg := gradeGrids[g]
		gg[origin] = nil
		gg[target] = &models.GradeCell{Teacher: teacher, Subject: moved.Subject}
		gradeGrids[g] = gg
	}
}

func rebuildGradeGrids(teacherGrids map[string]models.TeacherGrid, grades models.GradeSet) map[string]models.GradeGrid {
	gradeGrids := make(map[string]models.GradeGrid)
	for teacher, grid := range teacherGrids {
		for slot, cell := range grid {
			if cell == nil || cell.Subject == models.SubjectOpen {
				continue
			}
			for _, g := range gradeparser.Parse(cell.GradeDisplay, grades) {
				if _, exists := gradeGrids[g]; !exists {
					gradeGrids[g] = models.GradeGrid{}
				}
				gg := gradeGrids[g]
				gg[slot] = &models.GradeCell{Teacher: teacher, Subject: cell.Subject}
				gradeGrids[g] = gg
			}
		}
	}
	return gradeGrids
}
