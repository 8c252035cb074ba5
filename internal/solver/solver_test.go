package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/k11-scheduler/internal/models"
	"github.com/noah-isme/k11-scheduler/internal/rules"
	"github.com/noah-isme/k11-scheduler/internal/session"
)

func gradesK11() models.GradeSet {
	var grades []models.Grade
	grades = append(grades, models.Grade{Name: "Kindergarten", SortOrder: 0})
	names := []string{"1st", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th", "9th", "10th", "11th"}
	for i, n := range names {
		grades = append(grades, models.Grade{Name: n + " Grade", SortOrder: i + 1})
	}
	return models.NewGradeSet(grades)
}

func TestSolveTrivialCase(t *testing.T) {
	build := session.Build([]models.Class{
		{Teacher: "T1", GradeDisplay: "1st Grade", Subject: "Math", DaysPerWeek: 3},
	})
	result := Solve(build.Sessions, build.Groups, Options{
		Grades:        gradesK11(),
		Rules:         rules.NewSet(nil),
		MaxTimeMs:     5000,
		MaxIterations: 100000,
	})
	require.Equal(t, models.SolveOptimal, result.Status)
	assert.Len(t, result.Assignment, 3)
}

func TestSolveRespectsFixedSlots(t *testing.T) {
	build := session.Build([]models.Class{
		{
			Teacher: "T1", GradeDisplay: "2nd Grade", Subject: "Art", DaysPerWeek: 2,
			FixedSlots: []models.DayBlock{{Day: "Mon", Block: 1}, {Day: "Wed", Block: 1}},
		},
	})
	result := Solve(build.Sessions, build.Groups, Options{
		Grades:    gradesK11(),
		Rules:     rules.NewSet(nil),
		MaxTimeMs: 5000,
	})
	require.Equal(t, models.SolveOptimal, result.Status)
	for _, sess := range build.Sessions {
		slot := result.Assignment[sess.ID]
		assert.Equal(t, sess.ValidSlots[0], slot)
	}
}

func TestSolveCotaughtGroupsShareOneSlot(t *testing.T) {
	build := session.Build([]models.Class{
		{Teacher: "T1", GradeDisplay: "6th-7th Grade", Subject: "Science", DaysPerWeek: 3},
		{Teacher: "T2", GradeDisplay: "6th-7th Grade", Subject: "Science", DaysPerWeek: 3},
	})
	result := Solve(build.Sessions, build.Groups, Options{
		Grades:    gradesK11(),
		Rules:     rules.NewSet(nil),
		MaxTimeMs: 5000,
	})
	require.Equal(t, models.SolveOptimal, result.Status)
	for _, g := range build.Groups {
		require.Len(t, g.Sessions, 2)
		slot0 := result.Assignment[g.Sessions[0]]
		slot1 := result.Assignment[g.Sessions[1]]
		assert.Equal(t, slot0, slot1)
	}
}

func TestSolveInfeasibleWhenOverconstrained(t *testing.T) {
	build := session.Build([]models.Class{
		{Teacher: "T1", GradeDisplay: "3rd Grade", Subject: "Reading", DaysPerWeek: 5},
		{Teacher: "T1", GradeDisplay: "4th Grade", Subject: "Reading", DaysPerWeek: 5},
		{Teacher: "T1", GradeDisplay: "5th Grade", Subject: "Reading", DaysPerWeek: 5, AvailableDays: []string{"Mon"}},
	})
	result := Solve(build.Sessions, build.Groups, Options{
		Grades:        gradesK11(),
		Rules:         rules.NewSet(nil),
		MaxTimeMs:     2000,
		MaxIterations: 20000,
	})
	assert.Equal(t, models.SolveInfeasible, result.Status)
}

func TestSolveIsDeterministicForSameSeed(t *testing.T) {
	classes := []models.Class{
		{Teacher: "T1", GradeDisplay: "1st Grade", Subject: "Math", DaysPerWeek: 5},
		{Teacher: "T2", GradeDisplay: "2nd Grade", Subject: "Reading", DaysPerWeek: 5},
	}
	build1 := session.Build(classes)
	build2 := session.Build(classes)

	opts := Options{Grades: gradesK11(), Rules: rules.NewSet(nil), MaxTimeMs: 5000, Randomize: true, Seed: 42}
	r1 := Solve(build1.Sessions, build1.Groups, opts)
	r2 := Solve(build2.Sessions, build2.Groups, opts)

	require.Equal(t, models.SolveOptimal, r1.Status)
	require.Equal(t, models.SolveOptimal, r2.Status)
	assert.Equal(t, r1.Assignment, r2.Assignment)
}

func TestSolveNoDuplicateSubjectsSameDay(t *testing.T) {
	build := session.Build([]models.Class{
		{Teacher: "T1", GradeDisplay: "1st Grade", Subject: "Math", DaysPerWeek: 2, AvailableDays: []string{"Mon"}, AvailableBlocks: []int{1, 2}},
	})
	result := Solve(build.Sessions, build.Groups, Options{
		Grades:    gradesK11(),
		Rules:     rules.NewSet([]models.Rule{{Key: models.RuleNoDuplicateSubjects, Enabled: true}}),
		MaxTimeMs: 2000,
	})
	// two Math sessions for the same grade on the only available day
	// violate no_duplicate_subjects, so this must be infeasible.
	assert.Equal(t, models.SolveInfeasible, result.Status)
}
