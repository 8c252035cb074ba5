// Package score computes a candidate schedule's score, selects a diverse
// subset of candidates, and samples a random fraction of teachers to
// deprioritize in the next attempt's solver ordering.
package score

import (
	"sort"

	"github.com/noah-isme/k11-scheduler/internal/models"
	"github.com/noah-isme/k11-scheduler/internal/rules"
	"github.com/noah-isme/k11-scheduler/internal/solver"
)

// Candidate pairs a schedule option with the teacher grids it was scored
// from, since the diversity filter needs to compare grids directly.
type Candidate struct {
	Option       models.ScheduleOption
	TeacherGrids map[string]models.TeacherGrid
}

// Compute returns score = 100*(desiredStudyHalls-placed) + BTB + SPREAD.
// BTB and SPREAD are zero when their governing rule is off. Study Hall
// cells never count toward SPREAD's open-block count — per the glossary,
// "open block" is specifically a cell with no class AND no study hall.
func Compute(teacherGrids map[string]models.TeacherGrid, teachers []models.Teacher, studyHallsPlaced, backToBackIssues, desiredStudyHalls int, rulesSet rules.Set) float64 {
	btb := 0
	if rulesSet.NoBackToBackOpen() {
		btb = backToBackIssues
	}
	spread := 0
	if rulesSet.SpreadOpen() {
		spread = spreadPenalty(teacherGrids, teachers)
	}
	return 100*float64(desiredStudyHalls-studyHallsPlaced) + float64(btb) + float64(spread)
}

func spreadPenalty(teacherGrids map[string]models.TeacherGrid, teachers []models.Teacher) int {
	total := 0
	for _, t := range teachers {
		if !t.IsFullTime() {
			continue
		}
		grid := teacherGrids[t.Name]
		for d := 0; d < len(models.DayNames); d++ {
			openCount := 0
			for b := 0; b < len(models.Blocks); b++ {
				cell := grid[models.Slot(d, b)]
				if cell != nil && cell.Subject == models.SubjectOpen {
					openCount++
				}
			}
			if openCount > 1 {
				total += openCount - 1
			}
		}
	}
	return total
}

// SelectDiverse sorts candidates ascending by score and greedily accepts
// the first one not too similar (fewer than two teacher rows differing)
// to any already-accepted candidate, stopping at n survivors.
func SelectDiverse(candidates []Candidate, n int) []Candidate {
	sorted := append([]Candidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Option.Score < sorted[j].Option.Score })

	var survivors []Candidate
	for _, c := range sorted {
		if len(survivors) >= n {
			break
		}
		tooSimilar := false
		for _, s := range survivors {
			if differingTeachers(c.TeacherGrids, s.TeacherGrids) < 2 {
				tooSimilar = true
				break
			}
		}
		if !tooSimilar {
			survivors = append(survivors, c)
		}
	}
	return survivors
}

func differingTeachers(a, b map[string]models.TeacherGrid) int {
	seen := make(map[string]bool, len(a)+len(b))
	for name := range a {
		seen[name] = true
	}
	for name := range b {
		seen[name] = true
	}
	diff := 0
	for name := range seen {
		if !gridsEqual(a[name], b[name]) {
			diff++
		}
	}
	return diff
}

func gridsEqual(x, y models.TeacherGrid) bool {
	for i := range x {
		cx, cy := x[i], y[i]
		if (cx == nil) != (cy == nil) {
			return false
		}
		if cx == nil {
			continue
		}
		if *cx != *cy {
			return false
		}
	}
	return true
}

// SampleDeprioritized picks roughly fraction of teachers (seeded by rng)
// to push toward the end of the next attempt's solver ordering, reshaping
// the search tree to explore a different region of the solution space.
func SampleDeprioritized(teachers []string, rng *solver.Mulberry32, fraction float64) map[string]bool {
	shuffled := append([]string(nil), teachers...)
	solver.Shuffle(rng, shuffled)
	count := int(float64(len(shuffled)) * fraction)
	out := make(map[string]bool, count)
	for i := 0; i < count; i++ {
		out[shuffled[i]] = true
	}
	return out
}
