// Package stats recomputes per-teacher load summaries from a schedule's
// grids and reconciles a study-hall assignment list against the grids
// after an external edit.
package stats

import "github.com/noah-isme/k11-scheduler/internal/models"

// Compute returns a TeacherStats for every teacher with a grid, plus the
// option-level backToBackIssues and studyHallsPlaced sums.
func Compute(teacherGrids map[string]models.TeacherGrid, teachers []models.Teacher) (map[string]models.TeacherStats, int, int) {
	fullTime := make(map[string]bool, len(teachers))
	for _, t := range teachers {
		fullTime[t.Name] = t.IsFullTime()
	}

	out := make(map[string]models.TeacherStats, len(teacherGrids))
	backToBackIssues := 0
	studyHallsPlaced := 0

	for name, grid := range teacherGrids {
		st := models.TeacherStats{IsFullTime: fullTime[name]}
		for _, cell := range grid {
			if cell == nil {
				continue
			}
			st.TotalUsed++
			switch cell.Subject {
			case models.SubjectOpen:
				st.Open++
			case models.SubjectStudyHall:
				st.StudyHall++
				studyHallsPlaced++
			default:
				st.Teaching++
			}
		}
		if st.IsFullTime {
			st.BackToBack = backToBackCount(grid)
			backToBackIssues += st.BackToBack
		}
		out[name] = st
	}

	return out, backToBackIssues, studyHallsPlaced
}

func backToBackCount(grid models.TeacherGrid) int {
	count := 0
	for d := 0; d < len(models.DayNames); d++ {
		for b := 0; b < len(models.Blocks)-1; b++ {
			s1 := models.Slot(d, b)
			s2 := models.Slot(d, b+1)
			if idleOrStudyHall(grid[s1]) && idleOrStudyHall(grid[s2]) {
				count++
			}
		}
	}
	return count
}

func idleOrStudyHall(cell *models.TeacherCell) bool {
	return cell != nil && (cell.Subject == models.SubjectOpen || cell.Subject == models.SubjectStudyHall)
}

// ReconcileStudyHallAssignments walks every Study Hall cell in the teacher
// grids and matches it against the supplied assignment list, keyed by
// (group, teacher, day, block). An assignment that still matches a cell is
// kept as-is; one that doesn't is relocated to any unmatched cell sharing
// its group name; anything left over is marked unplaced. Finally, any
// Study Hall cell with no matching input assignment is appended as a new
// placed record, so the output always mirrors what the grids actually show.
func ReconcileStudyHallAssignments(teacherGrids map[string]models.TeacherGrid, assignments []models.StudyHallAssignment) []models.StudyHallAssignment {
	type cellRef struct {
		teacher string
		slot    int
		group   string
	}
	var cells []cellRef
	for teacher, grid := range teacherGrids {
		for slot, cell := range grid {
			if cell == nil || cell.Subject != models.SubjectStudyHall {
				continue
			}
			// The teacher cell's GradeDisplay doubles as the study-hall
			// group name (see internal/studyhall.place).
			cells = append(cells, cellRef{teacher: teacher, slot: slot, group: cell.GradeDisplay})
		}
	}

	matched := make([]bool, len(cells))
	out := make([]models.StudyHallAssignment, 0, len(assignments))

	for _, a := range assignments {
		if !a.Placed {
			out = append(out, a)
			continue
		}
		exactIdx := -1
		for i, c := range cells {
			if matched[i] {
				continue
			}
			if c.group == a.Group && c.teacher == a.Teacher && models.DayNames[models.DayOf(c.slot)] == a.Day && models.Blocks[models.BlockOf(c.slot)] == a.Block {
				exactIdx = i
				break
			}
		}
		if exactIdx >= 0 {
			matched[exactIdx] = true
			out = append(out, a)
			continue
		}

		relocateIdx := -1
		for i, c := range cells {
			if matched[i] {
				continue
			}
			if c.group == a.Group {
				relocateIdx = i
				break
			}
		}
		if relocateIdx >= 0 {
			matched[relocateIdx] = true
			c := cells[relocateIdx]
			out = append(out, models.StudyHallAssignment{
				Group:   a.Group,
				Teacher: c.teacher,
				Day:     models.DayNames[models.DayOf(c.slot)],
				Block:   models.Blocks[models.BlockOf(c.slot)],
				Placed:  true,
			})
			continue
		}

		out = append(out, models.StudyHallAssignment{Group: a.Group})
	}

	for i, c := range cells {
		if matched[i] {
			continue
		}
		out = append(out, models.StudyHallAssignment{
			Group:   c.group,
			Teacher: c.teacher,
			Day:     models.DayNames[models.DayOf(c.slot)],
			Block:   models.Blocks[models.BlockOf(c.slot)],
			Placed:  true,
		})
	}

	return out
}
