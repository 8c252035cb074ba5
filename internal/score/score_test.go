package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/k11-scheduler/internal/models"
	"github.com/noah-isme/k11-scheduler/internal/rules"
	"github.com/noah-isme/k11-scheduler/internal/solver"
)

func TestComputePenalizesMissingStudyHalls(t *testing.T) {
	s := Compute(map[string]models.TeacherGrid{}, nil, 1, 0, 3, rules.NewSet(nil))
	assert.Equal(t, 200.0, s)
}

func TestComputeZeroWhenAllRulesOff(t *testing.T) {
	ruleSet := rules.NewSet([]models.Rule{
		{Key: models.RuleNoBackToBackOpen, Enabled: false},
		{Key: models.RuleSpreadOpen, Enabled: false},
	})
	s := Compute(map[string]models.TeacherGrid{}, nil, 2, 99, 2, ruleSet)
	assert.Equal(t, 0.0, s)
}

func TestComputeSpreadPenaltyCountsOnlyOpenNotStudyHall(t *testing.T) {
	grid := models.TeacherGrid{}
	grid[models.Slot(0, 0)] = &models.TeacherCell{Subject: models.SubjectOpen}
	grid[models.Slot(0, 1)] = &models.TeacherCell{Subject: models.SubjectOpen}
	grid[models.Slot(0, 2)] = &models.TeacherCell{Subject: models.SubjectStudyHall}
	teacherGrids := map[string]models.TeacherGrid{"T1": grid}
	teachers := []models.Teacher{{Name: "T1", Status: models.TeacherFullTime}}

	s := Compute(teacherGrids, teachers, 0, 0, 0, rules.NewSet(nil))
	assert.Equal(t, 1.0, s) // two OPEN cells on Monday -> max(0, 2-1) = 1
}

func TestSelectDiverseRejectsTooSimilarCandidates(t *testing.T) {
	gridA := models.TeacherGrid{}
	gridA[0] = &models.TeacherCell{Subject: "Math"}
	gridB := gridA // identical

	candidates := []Candidate{
		{Option: models.ScheduleOption{OptionNumber: 1, Score: 1}, TeacherGrids: map[string]models.TeacherGrid{"T1": gridA}},
		{Option: models.ScheduleOption{OptionNumber: 2, Score: 2}, TeacherGrids: map[string]models.TeacherGrid{"T1": gridB}},
	}

	survivors := SelectDiverse(candidates, 3)
	assert.Len(t, survivors, 1)
	assert.Equal(t, 1, survivors[0].Option.OptionNumber)
}

func TestSelectDiverseAcceptsSufficientlyDifferentCandidates(t *testing.T) {
	gridA := models.TeacherGrid{}
	gridA[0] = &models.TeacherCell{Subject: "Math"}
	gridB := models.TeacherGrid{}
	gridB[0] = &models.TeacherCell{Subject: "Reading"}

	candidates := []Candidate{
		{Option: models.ScheduleOption{OptionNumber: 1, Score: 1}, TeacherGrids: map[string]models.TeacherGrid{"T1": gridA, "T2": gridA}},
		{Option: models.ScheduleOption{OptionNumber: 2, Score: 2}, TeacherGrids: map[string]models.TeacherGrid{"T1": gridB, "T2": gridB}},
	}

	survivors := SelectDiverse(candidates, 3)
	assert.Len(t, survivors, 2)
}

func TestSelectDiverseOrdersAscendingByScore(t *testing.T) {
	candidates := []Candidate{
		{Option: models.ScheduleOption{OptionNumber: 1, Score: 5}, TeacherGrids: map[string]models.TeacherGrid{}},
		{Option: models.ScheduleOption{OptionNumber: 2, Score: 1}, TeacherGrids: map[string]models.TeacherGrid{"T1": {}, "T2": {}}},
	}
	survivors := SelectDiverse(candidates, 1)
	assert.Equal(t, 2, survivors[0].Option.OptionNumber)
}

func TestSampleDeprioritizedReturnsRoughlyFraction(t *testing.T) {
	teachers := []string{"T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8", "T9", "T10"}
	out := SampleDeprioritized(teachers, solver.NewMulberry32(7), 0.3)
	assert.Len(t, out, 3)
}
