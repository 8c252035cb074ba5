// Package schedulebuilder converts a flat session-id->slot assignment into
// the two grid views the rest of the engine consumes: a per-teacher grid
// and a per-grade grid, the latter always a projection of the former.
package schedulebuilder

import (
	"github.com/noah-isme/k11-scheduler/internal/gradeparser"
	"github.com/noah-isme/k11-scheduler/internal/models"
)

// Build walks the assignment once, writing the teacher cell for every
// placed session and the grade cell for every concrete grade it resolves
// to via the grade parser.
func Build(sessions []models.Session, assignment map[int]int, grades models.GradeSet) (map[string]models.TeacherGrid, map[string]models.GradeGrid) {
	teacherGrids := make(map[string]models.TeacherGrid)
	gradeGrids := make(map[string]models.GradeGrid)

	for _, sess := range sessions {
		slot, ok := assignment[sess.ID]
		if !ok {
			continue
		}
		if _, exists := teacherGrids[sess.Teacher]; !exists {
			teacherGrids[sess.Teacher] = models.TeacherGrid{}
		}
		tg := teacherGrids[sess.Teacher]
		tg[slot] = &models.TeacherCell{GradeDisplay: sess.GradeDisplay, Subject: sess.Subject}
		teacherGrids[sess.Teacher] = tg

		for _, g := range gradesFor(sess, grades) {
			if _, exists := gradeGrids[g]; !exists {
				gradeGrids[g] = models.GradeGrid{}
			}
			gg := gradeGrids[g]
			gg[slot] = &models.GradeCell{Teacher: sess.Teacher, Subject: sess.Subject}
			gradeGrids[g] = gg
		}
	}

	return teacherGrids, gradeGrids
}

// RebuildGradeGrids reconstructs every grade grid wholly from the teacher
// grids, discarding whatever the caller held before, so the grade grid
// never drifts from its source of truth (spec invariant I6). The engine
// uses it to give the study-hall placer its grade grids; after the
// redistributor, redistribute.Run performs its own rebuild.
func RebuildGradeGrids(teacherGrids map[string]models.TeacherGrid, grades models.GradeSet) map[string]models.GradeGrid {
	gradeGrids := make(map[string]models.GradeGrid)
	for teacher, grid := range teacherGrids {
		for slot, cell := range grid {
			if cell == nil {
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

// FillOpen writes the OPEN sentinel into every still-null cell of every
// teacher grid present in teachers.
func FillOpen(teacherGrids map[string]models.TeacherGrid, teachers []string) {
	for _, t := range teachers {
		grid, exists := teacherGrids[t]
		if !exists {
			grid = models.TeacherGrid{}
		}
		for slot := range grid {
			if grid[slot] == nil {
				grid[slot] = &models.TeacherCell{Subject: models.SubjectOpen}
			}
		}
		teacherGrids[t] = grid
	}
}

func gradesFor(sess models.Session, grades models.GradeSet) []string {
	if len(sess.Grades) > 0 {
		return sess.Grades
	}
	return gradeparser.Parse(sess.GradeDisplay, grades)
}
