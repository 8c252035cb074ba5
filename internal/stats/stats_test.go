package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/k11-scheduler/internal/models"
)

func TestComputeCountsCellKinds(t *testing.T) {
	grid := models.TeacherGrid{}
	grid[models.Slot(0, 0)] = &models.TeacherCell{Subject: "Math"}
	grid[models.Slot(0, 1)] = &models.TeacherCell{Subject: models.SubjectOpen}
	grid[models.Slot(0, 2)] = &models.TeacherCell{Subject: models.SubjectStudyHall}
	teacherGrids := map[string]models.TeacherGrid{"T1": grid}
	teachers := []models.Teacher{{Name: "T1", Status: models.TeacherFullTime}}

	out, btbIssues, placed := Compute(teacherGrids, teachers)

	st := out["T1"]
	assert.Equal(t, 1, st.Teaching)
	assert.Equal(t, 1, st.Open)
	assert.Equal(t, 1, st.StudyHall)
	assert.Equal(t, 3, st.TotalUsed)
	assert.True(t, st.IsFullTime)
	assert.Equal(t, 1, placed)
	assert.Equal(t, 1, btbIssues) // open(block1) and study hall(block2) are adjacent -> 1 pair
}

func TestComputeCountsBackToBackOnlyForFullTime(t *testing.T) {
	grid := models.TeacherGrid{}
	grid[models.Slot(0, 0)] = &models.TeacherCell{Subject: models.SubjectOpen}
	grid[models.Slot(0, 1)] = &models.TeacherCell{Subject: models.SubjectStudyHall}
	teacherGrids := map[string]models.TeacherGrid{
		"FT": grid,
		"PT": grid,
	}
	teachers := []models.Teacher{
		{Name: "FT", Status: models.TeacherFullTime},
		{Name: "PT", Status: models.TeacherPartTime},
	}

	out, btbIssues, _ := Compute(teacherGrids, teachers)

	assert.Equal(t, 1, out["FT"].BackToBack)
	assert.Equal(t, 0, out["PT"].BackToBack)
	assert.Equal(t, 1, btbIssues)
}

func TestReconcileKeepsMatchingAssignment(t *testing.T) {
	grid := models.TeacherGrid{}
	grid[models.Slot(0, 2)] = &models.TeacherCell{GradeDisplay: "6th Grade", Subject: models.SubjectStudyHall}
	teacherGrids := map[string]models.TeacherGrid{"T1": grid}

	existing := []models.StudyHallAssignment{
		{Group: "6th Grade", Teacher: "T1", Day: "Mon", Block: 3, Placed: true},
	}

	out := ReconcileStudyHallAssignments(teacherGrids, existing)
	require.Len(t, out, 1)
	assert.Equal(t, "T1", out[0].Teacher)
	assert.Equal(t, "Mon", out[0].Day)
	assert.Equal(t, 3, out[0].Block)
}

func TestReconcileRelocatesMovedAssignment(t *testing.T) {
	grid := models.TeacherGrid{}
	grid[models.Slot(1, 3)] = &models.TeacherCell{GradeDisplay: "6th Grade", Subject: models.SubjectStudyHall}
	teacherGrids := map[string]models.TeacherGrid{"T2": grid}

	existing := []models.StudyHallAssignment{
		{Group: "6th Grade", Teacher: "T1", Day: "Mon", Block: 3, Placed: true},
	}

	out := ReconcileStudyHallAssignments(teacherGrids, existing)
	require.Len(t, out, 1)
	assert.Equal(t, "T2", out[0].Teacher)
	assert.Equal(t, "Tues", out[0].Day)
	assert.Equal(t, 4, out[0].Block)
	assert.True(t, out[0].Placed)
}

func TestReconcileMarksUnmatchedAsUnplaced(t *testing.T) {
	teacherGrids := map[string]models.TeacherGrid{"T1": {}}
	existing := []models.StudyHallAssignment{
		{Group: "6th Grade", Teacher: "T1", Day: "Mon", Block: 3, Placed: true},
	}
	out := ReconcileStudyHallAssignments(teacherGrids, existing)
	require.Len(t, out, 1)
	assert.False(t, out[0].Placed)
}

func TestReconcileAppendsUnlistedStudyHallCells(t *testing.T) {
	grid := models.TeacherGrid{}
	grid[models.Slot(2, 0)] = &models.TeacherCell{GradeDisplay: "7th Grade", Subject: models.SubjectStudyHall}
	teacherGrids := map[string]models.TeacherGrid{"T3": grid}

	out := ReconcileStudyHallAssignments(teacherGrids, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "7th Grade", out[0].Group)
	assert.Equal(t, "T3", out[0].Teacher)
}
