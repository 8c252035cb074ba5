package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/k11-scheduler/internal/models"
)

func TestBuildFreeSessionsUseFullGridByDefault(t *testing.T) {
	result := Build([]models.Class{
		{Teacher: "T1", GradeDisplay: "1st Grade", Subject: "Math", DaysPerWeek: 3},
	})
	require.Len(t, result.Sessions, 3)
	for _, s := range result.Sessions {
		assert.Len(t, s.ValidSlots, models.SlotsPerWeek)
		assert.False(t, s.IsFixed)
		assert.Nil(t, s.CotaughtGroupID)
	}
}

func TestBuildFixedSessionsOneSlotPerFixedSlot(t *testing.T) {
	result := Build([]models.Class{
		{
			Teacher:      "T1",
			GradeDisplay: "2nd Grade",
			Subject:      "Art",
			DaysPerWeek:  2,
			FixedSlots: []models.DayBlock{
				{Day: "Mon", Block: 1},
				{Day: "Wed", Block: 1},
			},
		},
	})
	require.Len(t, result.Sessions, 2)
	for _, s := range result.Sessions {
		assert.True(t, s.IsFixed)
		require.Len(t, s.ValidSlots, 1)
	}
	assert.Equal(t, models.Slot(0, 0), result.Sessions[0].ValidSlots[0])
	assert.Equal(t, models.Slot(2, 0), result.Sessions[1].ValidSlots[0])
}

func TestBuildRestrictsToAvailableDaysAndBlocks(t *testing.T) {
	result := Build([]models.Class{
		{
			Teacher:         "T1",
			GradeDisplay:    "3rd Grade",
			Subject:         "Reading",
			DaysPerWeek:     1,
			AvailableDays:   []string{"Mon"},
			AvailableBlocks: []int{1, 2},
		},
	})
	require.Len(t, result.Sessions, 1)
	assert.ElementsMatch(t, []int{models.Slot(0, 0), models.Slot(0, 1)}, result.Sessions[0].ValidSlots)
}

func TestBuildLinksCotaughtGroupsAcrossTeachers(t *testing.T) {
	result := Build([]models.Class{
		{Teacher: "T1", GradeDisplay: "6th-7th Grade", Subject: "Science", DaysPerWeek: 3},
		{Teacher: "T2", GradeDisplay: "6th-7th Grade", Subject: "Science", DaysPerWeek: 3},
	})
	require.Len(t, result.Sessions, 6)
	require.Len(t, result.Groups, 3)

	for _, s := range result.Sessions {
		require.NotNil(t, s.CotaughtGroupID)
	}

	for gi, g := range result.Groups {
		require.Len(t, g.Sessions, 2)
		teachers := map[string]bool{}
		for _, sid := range g.Sessions {
			teachers[result.Sessions[sid].Teacher] = true
			assert.Equal(t, gi, *result.Sessions[sid].CotaughtGroupID)
		}
		assert.Len(t, teachers, 2)
	}
}

func TestBuildDoesNotGroupElectives(t *testing.T) {
	result := Build([]models.Class{
		{Teacher: "T1", GradeDisplay: "Art Elective", Subject: "Art", DaysPerWeek: 2},
		{Teacher: "T2", GradeDisplay: "Art Elective", Subject: "Art", DaysPerWeek: 2},
	})
	for _, s := range result.Sessions {
		assert.Nil(t, s.CotaughtGroupID)
	}
	assert.Empty(t, result.Groups)
}

func TestBuildSingleTeacherNeverGroups(t *testing.T) {
	result := Build([]models.Class{
		{Teacher: "T1", GradeDisplay: "4th Grade", Subject: "Math", DaysPerWeek: 3},
	})
	assert.Empty(t, result.Groups)
}

func TestBuildGroupsUseMinSessionCountAcrossTeachers(t *testing.T) {
	result := Build([]models.Class{
		{Teacher: "T1", GradeDisplay: "8th Grade", Subject: "History", DaysPerWeek: 3},
		{Teacher: "T2", GradeDisplay: "8th Grade", Subject: "History", DaysPerWeek: 2},
	})
	require.Len(t, result.Groups, 2)
}
