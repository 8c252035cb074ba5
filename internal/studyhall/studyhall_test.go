package studyhall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/k11-scheduler/internal/models"
)

func emptyGrids(teachers []string, grades []string) (map[string]models.TeacherGrid, map[string]models.GradeGrid) {
	tg := make(map[string]models.TeacherGrid)
	for _, t := range teachers {
		tg[t] = models.TeacherGrid{}
	}
	gg := make(map[string]models.GradeGrid)
	for _, g := range grades {
		gg[g] = models.GradeGrid{}
	}
	return tg, gg
}

func TestPlaceAssignsFreeTeacherAndSlot(t *testing.T) {
	tg, gg := emptyGrids([]string{"T1"}, []string{"6th Grade"})
	result := Place(Options{
		TeacherGrids: tg,
		GradeGrids:   gg,
		Teachers:     []models.Teacher{{Name: "T1", Status: models.TeacherFullTime}},
		Eligibility:  models.StudyHallEligibilityConfig{AllowFullTime: true},
		Groups:       []Group{{Name: "6th Grade", Grades: []string{"6th Grade"}}},
	})
	require.Len(t, result, 1)
	assert.True(t, result[0].Placed)
	assert.Equal(t, "T1", result[0].Teacher)
}

func TestPlaceMarksUnplacedWhenNoEligibleTeachers(t *testing.T) {
	tg, gg := emptyGrids([]string{"T1"}, []string{"6th Grade"})
	result := Place(Options{
		TeacherGrids: tg,
		GradeGrids:   gg,
		Teachers:     []models.Teacher{{Name: "T1", Status: models.TeacherPartTime}},
		Eligibility:  models.StudyHallEligibilityConfig{AllowFullTime: true},
		Groups:       []Group{{Name: "6th Grade", Grades: []string{"6th Grade"}}},
	})
	require.Len(t, result, 1)
	assert.False(t, result[0].Placed)
	assert.Empty(t, result[0].Teacher)
}

func TestPlaceSkipsAlreadyCoveredGroups(t *testing.T) {
	tg, gg := emptyGrids([]string{"T1"}, []string{"6th Grade"})
	result := Place(Options{
		TeacherGrids:         tg,
		GradeGrids:           gg,
		Teachers:             []models.Teacher{{Name: "T1", Status: models.TeacherFullTime}},
		Eligibility:          models.StudyHallEligibilityConfig{AllowFullTime: true},
		Groups:               []Group{{Name: "6th Grade", Grades: []string{"6th Grade"}}},
		AlreadyCoveredGroups: map[string]bool{"6th Grade": true},
	})
	assert.Empty(t, result)
}

func TestPlaceRespectsOccupiedTeacherCell(t *testing.T) {
	tg, gg := emptyGrids([]string{"T1"}, []string{"6th Grade"})
	grid := tg["T1"]
	for slot := range grid {
		grid[slot] = &models.TeacherCell{Subject: "Math"}
	}
	grid[models.Slot(2, 3)] = nil
	tg["T1"] = grid

	result := Place(Options{
		TeacherGrids: tg,
		GradeGrids:   gg,
		Teachers:     []models.Teacher{{Name: "T1", Status: models.TeacherFullTime}},
		Eligibility:  models.StudyHallEligibilityConfig{AllowFullTime: true},
		Groups:       []Group{{Name: "6th Grade", Grades: []string{"6th Grade"}}},
	})
	require.Len(t, result, 1)
	require.True(t, result[0].Placed)
	assert.Equal(t, models.DayNames[2], result[0].Day)
	assert.Equal(t, models.Blocks[3], result[0].Block)
}

func TestPlaceDoesNotDoubleUpStudyHallOnSameDayForGrade(t *testing.T) {
	tg, gg := emptyGrids([]string{"T1", "T2"}, []string{"6th Grade"})
	g6 := gg["6th Grade"]
	g6[models.Slot(0, 0)] = &models.GradeCell{Teacher: "T1", Subject: models.SubjectStudyHall}
	gg["6th Grade"] = g6
	t1 := tg["T1"]
	t1[models.Slot(0, 0)] = &models.TeacherCell{Subject: models.SubjectStudyHall}
	tg["T1"] = t1

	result := Place(Options{
		TeacherGrids: tg,
		GradeGrids:   gg,
		Teachers:     []models.Teacher{{Name: "T2", Status: models.TeacherFullTime}},
		Eligibility:  models.StudyHallEligibilityConfig{AllowFullTime: true},
		Groups:       []Group{{Name: "6th Grade", Grades: []string{"6th Grade"}}},
	})
	require.Len(t, result, 1)
	require.True(t, result[0].Placed)
	assert.NotEqual(t, models.DayNames[0], result[0].Day)
}

func TestPlaceForcesRequiredTeacherFirst(t *testing.T) {
	tg, gg := emptyGrids([]string{"T1", "T2"}, []string{"6th Grade"})
	result := Place(Options{
		TeacherGrids:     tg,
		GradeGrids:       gg,
		Teachers:         []models.Teacher{{Name: "T1", Status: models.TeacherFullTime}, {Name: "T2", Status: models.TeacherFullTime}},
		Eligibility:      models.StudyHallEligibilityConfig{AllowFullTime: true},
		Groups:           []Group{{Name: "6th Grade", Grades: []string{"6th Grade"}}},
		RequiredTeachers: []string{"T2"},
	})
	require.Len(t, result, 1)
	assert.Equal(t, "T2", result[0].Teacher)
}
