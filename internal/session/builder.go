// Package session expands classes into atomic sessions and links
// co-taught groups across them.
package session

import (
	"strings"

	"github.com/noah-isme/k11-scheduler/internal/models"
)

// Build expands classes into sessions, then links co-teaching groups over
// the result. Electives (grade display containing "elective") never form
// groups.
func Build(classes []models.Class) models.BuildResult {
	var sessions []models.Session
	for classIdx, c := range classes {
		validSlots := validSlotsFor(c)
		if c.HasFixedSlots() {
			for _, fs := range c.FixedSlots {
				slot, ok := resolveDayBlock(fs)
				if !ok {
					continue
				}
				sessions = append(sessions, models.Session{
					Teacher:      c.Teacher,
					GradeDisplay: c.GradeDisplay,
					Grades:       c.Grades,
					Subject:      c.Subject,
					ValidSlots:   []int{slot},
					IsFixed:      true,
					ClassIndex:   classIdx,
				})
			}
			continue
		}
		for i := 0; i < c.DaysPerWeek; i++ {
			sessions = append(sessions, models.Session{
				Teacher:      c.Teacher,
				GradeDisplay: c.GradeDisplay,
				Grades:       c.Grades,
				Subject:      c.Subject,
				ValidSlots:   validSlots,
				IsFixed:      false,
				ClassIndex:   classIdx,
			})
		}
	}

	for i := range sessions {
		sessions[i].ID = i
	}

	groups := linkCotaughtGroups(sessions)
	for gi, g := range groups {
		for _, sid := range g.Sessions {
			gid := gi
			sessions[sid].CotaughtGroupID = &gid
		}
	}

	return models.BuildResult{Sessions: sessions, Groups: groups}
}

// linkCotaughtGroups groups sessions sharing (grade_display, subject)
// across distinct teachers and pairs the k-th session of each
// participating teacher into group k, for k = 0..min(per-teacher count)-1.
func linkCotaughtGroups(sessions []models.Session) []models.Group {
	type key struct{ grade, subject string }
	byKey := make(map[key]map[string][]int) // key -> teacher -> session indices, in order
	var keyOrder []key
	seenKey := make(map[key]bool)

	for i, s := range sessions {
		if isElective(s.GradeDisplay) {
			continue
		}
		k := key{grade: s.GradeDisplay, subject: s.Subject}
		if byKey[k] == nil {
			byKey[k] = make(map[string][]int)
		}
		if !seenKey[k] {
			seenKey[k] = true
			keyOrder = append(keyOrder, k)
		}
		byKey[k][s.Teacher] = append(byKey[k][s.Teacher], i)
	}

	var groups []models.Group
	for _, k := range keyOrder {
		byTeacher := byKey[k]
		if len(byTeacher) < 2 {
			continue
		}
		minCount := -1
		teacherOrder := orderedTeachers(sessions, k, byTeacher)
		for _, t := range teacherOrder {
			n := len(byTeacher[t])
			if minCount == -1 || n < minCount {
				minCount = n
			}
		}
		for idx := 0; idx < minCount; idx++ {
			var members []int
			for _, t := range teacherOrder {
				members = append(members, byTeacher[t][idx])
			}
			groups = append(groups, models.Group{ID: len(groups), Sessions: members})
		}
	}

	return groups
}

// orderedTeachers returns the teachers sharing key k in first-appearance
// order among sessions, so group membership order is deterministic.
func orderedTeachers(sessions []models.Session, k struct{ grade, subject string }, byTeacher map[string][]int) []string {
	seen := make(map[string]bool, len(byTeacher))
	var order []string
	for _, s := range sessions {
		if s.GradeDisplay != k.grade || s.Subject != k.subject {
			continue
		}
		if seen[s.Teacher] {
			continue
		}
		if _, ok := byTeacher[s.Teacher]; !ok {
			continue
		}
		seen[s.Teacher] = true
		order = append(order, s.Teacher)
	}
	return order
}

func isElective(gradeDisplay string) bool {
	return strings.Contains(strings.ToLower(gradeDisplay), "elective")
}

func validSlotsFor(c models.Class) []int {
	days := c.AvailableDays
	if len(days) == 0 {
		days = models.DayNames[:]
	}
	blocks := c.AvailableBlocks
	if len(blocks) == 0 {
		blocks = models.Blocks[:]
	}
	var out []int
	for _, d := range days {
		di, ok := dayIndex(d)
		if !ok {
			continue
		}
		for _, b := range blocks {
			bi, ok := blockIndex(b)
			if !ok {
				continue
			}
			out = append(out, models.Slot(di, bi))
		}
	}
	return out
}

func resolveDayBlock(fs models.DayBlock) (int, bool) {
	di, ok := dayIndex(fs.Day)
	if !ok {
		return 0, false
	}
	bi, ok := blockIndex(fs.Block)
	if !ok {
		return 0, false
	}
	return models.Slot(di, bi), true
}

func dayIndex(name string) (int, bool) {
	for i, d := range models.DayNames {
		if strings.EqualFold(d, name) {
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
