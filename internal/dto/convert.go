package dto

import "github.com/noah-isme/k11-scheduler/internal/models"

// ToTeachers converts the wire roster into domain teachers.
func (r GenerateRequest) ToTeachers() []models.Teacher {
	out := make([]models.Teacher, len(r.Teachers))
	for i, t := range r.Teachers {
		elig := models.StudyHallEligible
		if t.CanSuperviseStudyHall == string(models.StudyHallExcluded) {
			elig = models.StudyHallExcluded
		}
		out[i] = models.Teacher{
			Name:                  t.Name,
			Status:                models.TeacherStatus(t.Status),
			CanSuperviseStudyHall: elig,
		}
	}
	return out
}

// ToClasses converts the wire class list into domain classes.
func (r GenerateRequest) ToClasses() []models.Class {
	out := make([]models.Class, len(r.Classes))
	for i, c := range r.Classes {
		fixed := make([]models.DayBlock, len(c.FixedSlots))
		for j, fs := range c.FixedSlots {
			fixed[j] = models.DayBlock{Day: fs.Day, Block: fs.Block}
		}
		out[i] = models.Class{
			Teacher:         c.Teacher,
			GradeDisplay:    c.GradeDisplay,
			Grades:          c.Grades,
			Subject:         c.Subject,
			DaysPerWeek:     c.DaysPerWeek,
			IsElective:      c.IsElective,
			AvailableDays:   c.AvailableDays,
			AvailableBlocks: c.AvailableBlocks,
			FixedSlots:      fixed,
		}
	}
	return out
}

// ToRules converts the wire rule list into domain rules.
func (r GenerateRequest) ToRules() []models.Rule {
	out := make([]models.Rule, len(r.Rules))
	for i, rl := range r.Rules {
		out[i] = models.Rule{Key: rl.Key, Enabled: rl.Enabled, Config: rl.Config}
	}
	return out
}

// ToGradeSet converts the wire grade vocabulary into a domain GradeSet,
// assigning sort order by list position (ascending, Kindergarten-first is
// the caller's responsibility — the engine trusts the supplied order).
func (r GenerateRequest) ToGradeSet() models.GradeSet {
	grades := make([]models.Grade, len(r.Grades))
	for i, name := range r.Grades {
		grades[i] = models.Grade{Name: name, SortOrder: i}
	}
	return models.NewGradeSet(grades)
}

// ToLockedGrid converts one locked-teacher cell list into a dense
// TeacherGrid, skipping cells whose day name doesn't resolve.
func ToLockedGrid(cells []LockedCellInput) models.TeacherGrid {
	var grid models.TeacherGrid
	for _, c := range cells {
		di, ok := dayIndex(c.Day)
		if !ok {
			continue
		}
		bi, ok := blockIndex(c.Block)
		if !ok {
			continue
		}
		grid[models.Slot(di, bi)] = &models.TeacherCell{GradeDisplay: c.GradeDisplay, Subject: c.Subject}
	}
	return grid
}

func dayIndex(name string) (int, bool) {
	for i, d := range models.DayNames {
		if d == name {
			return i, true
		}
	}
	return 0, false
}

func blockIndex(block int) (int, bool) {
	for i, b := range models.Blocks {
		if b == block {
			return i, true
		}
	}
	return 0, false
}
