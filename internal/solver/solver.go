// Package solver implements the backtracking constraint solver that
// places every session into a valid (day, block) slot, honoring teacher,
// grade, and same-day-duplicate-subject constraints, with co-taught
// groups sharing one slot.
package solver

import (
	"sort"
	"time"

	"github.com/noah-isme/k11-scheduler/internal/gradeparser"
	"github.com/noah-isme/k11-scheduler/internal/models"
	"github.com/noah-isme/k11-scheduler/internal/rules"
)

// Options configures one solver attempt.
type Options struct {
	Grades                models.GradeSet
	Rules                 rules.Set
	PrefilledGradeSlots    map[string]map[int]bool // grade -> slot -> occupied
	DeprioritizeTeachers   map[string]bool
	MaxTimeMs             int
	MaxIterations         int
	Randomize             bool
	Seed                  uint32
}

// Result is the outcome of one attempt.
type Result struct {
	Status     models.SolveStatus
	Assignment map[int]int // session id -> slot
}

const defaultMaxIterations = 100000

// Solve runs one backtracking attempt over sessions, respecting
// co-taught groups.
func Solve(sessions []models.Session, groups []models.Group, opts Options) Result {
	s := newState(sessions, groups, opts)
	ordered := s.orderedSessionIDs()

	deadline := time.Now().Add(time.Duration(opts.MaxTimeMs) * time.Millisecond)
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	ok, timedOut := s.search(ordered, 0, deadline, maxIter)
	if ok {
		return Result{Status: models.SolveOptimal, Assignment: s.assignment}
	}
	if timedOut {
		return Result{Status: models.SolveTimeout}
	}
	return Result{Status: models.SolveInfeasible}
}

type state struct {
	sessions       []models.Session
	groups         []models.Group
	rules          rules.Set
	grades         models.GradeSet
	deprioritize   map[string]bool
	randomize      bool
	rng            *Mulberry32
	iterations     int

	assignment      map[int]int
	teacherOccupied map[string]map[int]bool
	gradeOccupied   map[string]map[int]bool
	gradeSubjDay    map[string]map[int]bool // "grade|subject" -> day index -> used
	cotaughtPlaced  map[int]bool

	sessionByID map[int]*models.Session
	groupByID   map[int]*models.Group
}

func newState(sessions []models.Session, groups []models.Group, opts Options) *state {
	s := &state{
		sessions:        sessions,
		groups:          groups,
		rules:           opts.Rules,
		grades:          opts.Grades,
		deprioritize:    opts.DeprioritizeTeachers,
		randomize:       opts.Randomize,
		rng:             NewMulberry32(opts.Seed),
		assignment:      make(map[int]int),
		teacherOccupied: make(map[string]map[int]bool),
		gradeOccupied:   make(map[string]map[int]bool),
		gradeSubjDay:    make(map[string]map[int]bool),
		cotaughtPlaced:  make(map[int]bool),
		sessionByID:     make(map[int]*models.Session),
		groupByID:       make(map[int]*models.Group),
	}
	for i := range sessions {
		s.sessionByID[sessions[i].ID] = &s.sessions[i]
	}
	for i := range groups {
		s.groupByID[groups[i].ID] = &s.groups[i]
	}
	for grade, slots := range opts.PrefilledGradeSlots {
		if s.gradeOccupied[grade] == nil {
			s.gradeOccupied[grade] = make(map[int]bool)
		}
		for slot, occupied := range slots {
			if occupied {
				s.gradeOccupied[grade][slot] = true
			}
		}
	}
	return s
}

// orderedSessionIDs sorts by (isFixed desc, deprioritized asc, len(validSlots)
// asc) — fixed sessions first, then an MRV-like ordering biased to push
// deprioritized teachers later. Co-taught sessions beyond the group's
// first member are skipped (they're placed with the group).
func (s *state) orderedSessionIDs() []int {
	firstOfGroup := make(map[int]bool)
	var ids []int
	seenGroup := make(map[int]bool)
	for _, sess := range s.sessions {
		if sess.CotaughtGroupID != nil {
			gid := *sess.CotaughtGroupID
			if seenGroup[gid] {
				continue
			}
			seenGroup[gid] = true
			firstOfGroup[sess.ID] = true
		}
		ids = append(ids, sess.ID)
	}

	sort.SliceStable(ids, func(i, j int) bool {
		si, sj := s.sessionByID[ids[i]], s.sessionByID[ids[j]]
		if si.IsFixed != sj.IsFixed {
			return si.IsFixed
		}
		di, dj := s.deprioritize[si.Teacher], s.deprioritize[sj.Teacher]
		if di != dj {
			return !di
		}
		return len(si.ValidSlots) < len(sj.ValidSlots)
	})
	return ids
}

func (s *state) search(ordered []int, idx int, deadline time.Time, maxIter int) (ok bool, timedOut bool) {
	if idx >= len(ordered) {
		return true, false
	}

	s.iterations++
	if s.iterations > maxIter {
		return false, true
	}
	if s.iterations%64 == 0 && time.Now().After(deadline) {
		return false, true
	}

	sessID := ordered[idx]
	sess := s.sessionByID[sessID]

	if s.cotaughtPlaced[sessID] {
		return s.search(ordered, idx+1, deadline, maxIter)
	}

	if sess.CotaughtGroupID != nil {
		return s.searchGroup(ordered, idx, *sess.CotaughtGroupID, deadline, maxIter)
	}

	candidates := s.candidateSlots(*sess)
	if s.randomize {
		Shuffle(s.rng, candidates)
	}

	for _, slot := range candidates {
		if !s.validFor(*sess, slot) {
			continue
		}
		s.place(*sess, slot)
		ok, timedOut := s.search(ordered, idx+1, deadline, maxIter)
		if ok || timedOut {
			return ok, timedOut
		}
		s.unplace(*sess, slot)
	}
	return false, false
}

func (s *state) searchGroup(ordered []int, idx int, groupID int, deadline time.Time, maxIter int) (bool, bool) {
	group := s.groupByID[groupID]
	members := make([]models.Session, len(group.Sessions))
	for i, sid := range group.Sessions {
		members[i] = *s.sessionByID[sid]
	}

	candidates := s.sharedCandidateSlots(members)
	if s.randomize {
		Shuffle(s.rng, candidates)
	}

	for _, slot := range candidates {
		if !s.validForAll(members, slot) {
			continue
		}
		for _, m := range members {
			s.place(m, slot)
			s.cotaughtPlaced[m.ID] = true
		}
		ok, timedOut := s.search(ordered, idx+1, deadline, maxIter)
		if ok || timedOut {
			return ok, timedOut
		}
		for _, m := range members {
			s.unplace(m, slot)
			delete(s.cotaughtPlaced, m.ID)
		}
	}
	return false, false
}

func (s *state) sharedCandidateSlots(members []models.Session) []int {
	if len(members) == 0 {
		return nil
	}
	inAll := make(map[int]int)
	for _, m := range members {
		for _, slot := range m.ValidSlots {
			inAll[slot]++
		}
	}
	var shared []int
	for slot, count := range inAll {
		if count == len(members) {
			shared = append(shared, slot)
		}
	}
	sort.Ints(shared)
	return shared
}

func (s *state) candidateSlots(sess models.Session) []int {
	out := make([]int, len(sess.ValidSlots))
	copy(out, sess.ValidSlots)
	sort.Ints(out)
	return out
}

func (s *state) validForAll(members []models.Session, slot int) bool {
	for _, m := range members {
		if !s.validFor(m, slot) {
			return false
		}
	}
	return true
}

func (s *state) validFor(sess models.Session, slot int) bool {
	if s.teacherOccupied[sess.Teacher][slot] {
		return false
	}
	grades := s.gradesFor(sess)
	day := models.DayOf(slot)
	for _, g := range grades {
		if s.gradeOccupied[g][slot] {
			return false
		}
		if s.rules.NoDuplicateSubjects() {
			if s.gradeSubjDay[gradeSubjKey(g, sess.Subject)][day] {
				return false
			}
		}
	}
	return true
}

func (s *state) gradesFor(sess models.Session) []string {
	if len(sess.Grades) > 0 {
		return sess.Grades
	}
	return gradeparser.Parse(sess.GradeDisplay, s.grades)
}

func (s *state) place(sess models.Session, slot int) {
	s.assignment[sess.ID] = slot
	if s.teacherOccupied[sess.Teacher] == nil {
		s.teacherOccupied[sess.Teacher] = make(map[int]bool)
	}
	s.teacherOccupied[sess.Teacher][slot] = true

	day := models.DayOf(slot)
	for _, g := range s.gradesFor(sess) {
		if s.gradeOccupied[g] == nil {
			s.gradeOccupied[g] = make(map[int]bool)
		}
		s.gradeOccupied[g][slot] = true

		key := gradeSubjKey(g, sess.Subject)
		if s.gradeSubjDay[key] == nil {
			s.gradeSubjDay[key] = make(map[int]bool)
		}
		s.gradeSubjDay[key][day] = true
	}
}

func (s *state) unplace(sess models.Session, slot int) {
	delete(s.assignment, sess.ID)
	delete(s.teacherOccupied[sess.Teacher], slot)

	day := models.DayOf(slot)
	for _, g := range s.gradesFor(sess) {
		delete(s.gradeOccupied[g], slot)
		key := gradeSubjKey(g, sess.Subject)
		// Only clear the day flag if no other assigned session still
		// teaches this subject to this grade on that day (a scan over the
		// current assignment).
		if !s.gradeSubjectStillUsedOnDay(g, sess.Subject, day, sess.ID) {
			delete(s.gradeSubjDay[key], day)
		}
	}
}

func (s *state) gradeSubjectStillUsedOnDay(grade, subject string, day, excludeSessionID int) bool {
	for sid, slot := range s.assignment {
		if sid == excludeSessionID {
			continue
		}
		if models.DayOf(slot) != day {
			continue
		}
		sess := s.sessionByID[sid]
		if sess.Subject != subject {
			continue
		}
		for _, g := range s.gradesFor(*sess) {
			if g == grade {
				return true
			}
		}
	}
	return false
}

func gradeSubjKey(grade, subject string) string {
	return grade + "|" + subject
}
