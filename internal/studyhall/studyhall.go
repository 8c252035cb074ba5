// Package studyhall places one supervised study-hall slot per configured
// grade group, picking an eligible teacher and a (day, block) where every
// participating grade is free and has no study hall yet that day.
package studyhall

import (
	"sort"

	"github.com/noah-isme/k11-scheduler/internal/models"
	"github.com/noah-isme/k11-scheduler/internal/solver"
)

// Group is one configured study-hall group: the grades that jointly
// attend a single supervised slot, named for reporting.
type Group struct {
	Name   string
	Grades []string
}

// Options configures one placement pass.
type Options struct {
	TeacherGrids         map[string]models.TeacherGrid
	GradeGrids           map[string]models.GradeGrid
	Teachers             []models.Teacher
	Eligibility          models.StudyHallEligibilityConfig
	Groups               []Group
	RequiredTeachers     []string
	AlreadyCoveredGroups map[string]bool
	Shuffle              bool
	Seed                 uint32
}

// Place runs the two-phase placement and returns the completed assignment
// list. TeacherGrids and GradeGrids are mutated in place.
func Place(opts Options) []models.StudyHallAssignment {
	var groupsToPlace []Group
	for _, g := range opts.Groups {
		if opts.AlreadyCoveredGroups[g.Name] {
			continue
		}
		groupsToPlace = append(groupsToPlace, g)
	}

	eligible := eligibleTeachers(opts.Teachers, opts.Eligibility)
	if len(eligible) == 0 {
		out := make([]models.StudyHallAssignment, 0, len(groupsToPlace))
		for _, g := range groupsToPlace {
			out = append(out, models.StudyHallAssignment{Group: g.Name})
		}
		return out
	}

	placed := make(map[string]models.StudyHallAssignment)
	remaining := make(map[string]bool, len(groupsToPlace))
	for _, g := range groupsToPlace {
		remaining[g.Name] = true
	}

	teacherOrder := orderTeachers(eligible, opts.TeacherGrids, opts.Shuffle, opts.Seed)
	slotOrder := orderSlots(opts.Shuffle, opts.Seed)
	groupOrder := groupsToPlace
	if opts.Shuffle && opts.Seed%10 >= 7 {
		groupOrder = append([]Group(nil), groupsToPlace...)
		solver.Shuffle(solver.NewMulberry32(opts.Seed+1), groupOrder)
	}

	// Phase 1: forced re-placement for teachers who must keep a study hall.
	for _, t := range opts.RequiredTeachers {
		if len(remaining) == 0 {
			break
		}
		for _, g := range groupOrder {
			if !remaining[g.Name] {
				continue
			}
			if slot, ok := findSlot([]string{t}, g, opts.TeacherGrids, opts.GradeGrids, slotOrder); ok {
				place(opts.TeacherGrids, opts.GradeGrids, t, g, slot)
				placed[g.Name] = assignmentFor(g.Name, t, slot)
				delete(remaining, g.Name)
				break
			}
		}
	}

	// Phase 2: remaining groups against the full ordered teacher list.
	for _, g := range groupOrder {
		if !remaining[g.Name] {
			continue
		}
		if teacher, slot, ok := findTeacherAndSlot(teacherOrder, g, opts.TeacherGrids, opts.GradeGrids, slotOrder); ok {
			place(opts.TeacherGrids, opts.GradeGrids, teacher, g, slot)
			placed[g.Name] = assignmentFor(g.Name, teacher, slot)
			delete(remaining, g.Name)
		}
	}

	out := make([]models.StudyHallAssignment, 0, len(groupsToPlace))
	for _, g := range groupsToPlace {
		if a, ok := placed[g.Name]; ok {
			out = append(out, a)
			continue
		}
		out = append(out, models.StudyHallAssignment{Group: g.Name})
	}
	return out
}

func eligibleTeachers(teachers []models.Teacher, elig models.StudyHallEligibilityConfig) []models.Teacher {
	var out []models.Teacher
	for _, t := range teachers {
		if t.IsExcludedFromStudyHall() {
			continue
		}
		if t.IsFullTime() && elig.AllowFullTime {
			out = append(out, t)
			continue
		}
		if !t.IsFullTime() && elig.AllowPartTime {
			out = append(out, t)
		}
	}
	return out
}

// orderTeachers sorts ascending by current teaching count, then applies
// one of four mixing strategies chosen by seed mod 10 when shuffling.
func orderTeachers(teachers []models.Teacher, grids map[string]models.TeacherGrid, shuffle bool, seed uint32) []string {
	names := make([]string, len(teachers))
	for i, t := range teachers {
		names[i] = t.Name
	}
	load := func(name string) int { return teachingCount(grids[name]) }

	sort.SliceStable(names, func(i, j int) bool { return load(names[i]) < load(names[j]) })
	if !shuffle {
		return names
	}

	strategy := seed % 10
	rng := solver.NewMulberry32(seed)
	switch {
	case strategy <= 2:
		shuffleWithinBuckets(names, load, rng)
	case strategy <= 4:
		reverseBuckets(names, load)
		shuffleWithinBuckets(names, load, rng)
	default:
		solver.Shuffle(rng, names)
	}
	return names
}

func teachingCount(grid models.TeacherGrid) int {
	n := 0
	for _, cell := range grid {
		if cell == nil {
			continue
		}
		if cell.Subject == models.SubjectOpen || cell.Subject == models.SubjectStudyHall {
			continue
		}
		n++
	}
	return n
}

func shuffleWithinBuckets(names []string, load func(string) int, rng *solver.Mulberry32) {
	start := 0
	for start < len(names) {
		end := start + 1
		for end < len(names) && load(names[end]) == load(names[start]) {
			end++
		}
		bucket := names[start:end]
		solver.Shuffle(rng, bucket)
		start = end
	}
}

func reverseBuckets(names []string, load func(string) int) {
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
}

// orderSlots returns the 25 slots in (day, block) order. When shuffling is
// enabled and seed mod 10 is 5 or more, the whole list is shuffled with
// its own seeded generator; for the other strategies it stays in order.
func orderSlots(shuffle bool, seed uint32) []int {
	slots := models.AllSlots()
	if !shuffle {
		return slots
	}
	strategy := seed % 10
	if strategy >= 5 {
		solver.Shuffle(solver.NewMulberry32(seed+2), slots)
	}
	return slots
}

func findSlot(teacherOrder []string, g Group, teacherGrids map[string]models.TeacherGrid, gradeGrids map[string]models.GradeGrid, slotOrder []int) (int, bool) {
	_, slot, ok := findTeacherAndSlot(teacherOrder, g, teacherGrids, gradeGrids, slotOrder)
	return slot, ok
}

func findTeacherAndSlot(teacherOrder []string, g Group, teacherGrids map[string]models.TeacherGrid, gradeGrids map[string]models.GradeGrid, slotOrder []int) (string, int, bool) {
	for _, t := range teacherOrder {
		for _, slot := range slotOrder {
			if validPlacement(t, g, slot, teacherGrids, gradeGrids) {
				return t, slot, true
			}
		}
	}
	return "", 0, false
}

func validPlacement(teacher string, g Group, slot int, teacherGrids map[string]models.TeacherGrid, gradeGrids map[string]models.GradeGrid) bool {
	if teacherGrids[teacher][slot] != nil {
		return false
	}
	day := models.DayOf(slot)
	for _, grade := range g.Grades {
		if gradeGrids[grade][slot] != nil {
			return false
		}
		if gradeHasStudyHallOnDay(gradeGrids[grade], day) {
			return false
		}
	}
	return true
}

func gradeHasStudyHallOnDay(grid models.GradeGrid, day int) bool {
	for slot, cell := range grid {
		if cell == nil {
			continue
		}
		if models.DayOf(slot) != day {
			continue
		}
		if cell.Subject == models.SubjectStudyHall {
			return true
		}
	}
	return false
}

// place writes the study-hall cell into both grids. The teacher cell's
// GradeDisplay is the group name so that a later whole-grid grade-grid
// rebuild (see internal/redistribute and internal/schedulebuilder) can
// recover the participating grades through the grade parser, same as any
// taught cell — the grade grid is always a projection of the teacher
// grid, never an independent record.
func place(teacherGrids map[string]models.TeacherGrid, gradeGrids map[string]models.GradeGrid, teacher string, g Group, slot int) {
	grid := teacherGrids[teacher]
	grid[slot] = &models.TeacherCell{GradeDisplay: g.Name, Subject: models.SubjectStudyHall}
	teacherGrids[teacher] = grid

	for _, grade := range g.Grades {
		gg := gradeGrids[grade]
		gg[slot] = &models.GradeCell{Teacher: teacher, Subject: models.SubjectStudyHall}
		gradeGrids[grade] = gg
	}
}

func assignmentFor(name, teacher string, slot int) models.StudyHallAssignment {
	return models.StudyHallAssignment{
		Group:   name,
		Teacher: teacher,
		Day:     models.DayNames[models.DayOf(slot)],
		Block:   models.Blocks[models.BlockOf(slot)],
		Placed:  true,
	}
}
