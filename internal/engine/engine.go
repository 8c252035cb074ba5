// Package engine orchestrates the nine domain packages into the
// multi-attempt, multi-option generation pipeline: Session Builder once,
// then a Solver loop with increasing diversity pressure, Schedule
// Builder, Study-Hall Placer, Open-Block Redistributor, and Scorer per
// candidate, finishing with the Diversity Filter and Stats annotation.
// Shaped after the teacher's ScheduleGeneratorService: validate request,
// assemble domain state, run the generation loop, cache the result,
// return a typed response.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/k11-scheduler/internal/dto"
	"github.com/noah-isme/k11-scheduler/internal/engine/proposalcache"
	"github.com/noah-isme/k11-scheduler/internal/gradeparser"
	"github.com/noah-isme/k11-scheduler/internal/metrics"
	"github.com/noah-isme/k11-scheduler/internal/models"
	"github.com/noah-isme/k11-scheduler/internal/redistribute"
	"github.com/noah-isme/k11-scheduler/internal/rules"
	"github.com/noah-isme/k11-scheduler/internal/schedulebuilder"
	"github.com/noah-isme/k11-scheduler/internal/score"
	"github.com/noah-isme/k11-scheduler/internal/session"
	"github.com/noah-isme/k11-scheduler/internal/solver"
	"github.com/noah-isme/k11-scheduler/internal/stats"
	"github.com/noah-isme/k11-scheduler/internal/studyhall"
	appErrors "github.com/noah-isme/k11-scheduler/pkg/errors"
)

// OnProgress is invoked at the three suspension points named in the
// concurrency model: once before the first attempt, once at the top of
// every attempt, and once just before each attempt invokes the solver.
type OnProgress func(done, total int, message string)

// Config supplies defaults for a request that omits its own options.
type Config struct {
	NumOptions          int
	NumAttempts         int
	TimeoutPerAttemptMs int
}

func (c Config) withDefaults() Config {
	if c.NumOptions <= 0 {
		c.NumOptions = 3
	}
	if c.NumAttempts <= 0 {
		c.NumAttempts = 50
	}
	if c.TimeoutPerAttemptMs <= 0 {
		c.TimeoutPerAttemptMs = 5000
	}
	return c
}

// Engine ties the domain packages together behind one Generate call.
type Engine struct {
	cfg       Config
	logger    *zap.Logger
	validator *validator.Validate
	store     proposalcache.Store
	metrics   *metrics.Collectors
}

// New wires an Engine. A nil validator/logger/store/metrics falls back to
// a usable default, same as the teacher's NewScheduleGeneratorService.
func New(cfg Config, logger *zap.Logger, validate *validator.Validate, store proposalcache.Store, mcs *metrics.Collectors) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if store == nil {
		store = proposalcache.NewMemory(30 * time.Minute)
	}
	return &Engine{cfg: cfg.withDefaults(), logger: logger, validator: validate, store: store, metrics: mcs}
}

// attemptCounts tallies outcomes across the attempt loop.
type attemptCounts struct {
	optimal    int
	timeout    int
	infeasible int
}

// Generate runs the full pipeline and returns a typed response. onProgress
// may be nil.
func (e *Engine) Generate(ctx context.Context, req dto.GenerateRequest, onProgress OnProgress) (*dto.GenerateResponse, error) {
	if onProgress == nil {
		onProgress = func(int, int, string) {}
	}

	if err := e.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	grades := req.ToGradeSet()
	if grades.Len() == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoGrades, "no grades provided")
	}

	teachers := req.ToTeachers()
	classes := req.ToClasses()
	rulesSet := rules.NewSet(req.ToRules())
	build := session.Build(classes)

	opts := req.Options
	if opts == nil {
		opts = &dto.GenerateOptions{}
	}
	cfg := e.cfg
	if opts.NumOptions > 0 {
		cfg.NumOptions = opts.NumOptions
	}
	if opts.NumAttempts > 0 {
		cfg.NumAttempts = opts.NumAttempts
	}
	if opts.TimeoutPerAttemptMs > 0 {
		cfg.TimeoutPerAttemptMs = opts.TimeoutPerAttemptMs
	}

	lockedGrids := make(map[string]models.TeacherGrid, len(opts.LockedTeachers))
	for name, cells := range opts.LockedTeachers {
		lockedGrids[name] = dto.ToLockedGrid(cells)
	}

	sessions := build.Sessions
	if len(lockedGrids) > 0 {
		filtered := sessions[:0:0]
		for _, s := range sessions {
			if _, locked := lockedGrids[s.Teacher]; locked {
				continue
			}
			filtered = append(filtered, s)
		}
		sessions = filtered
	}
	if len(sessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoClasses, "no classes to schedule")
	}

	prefilled := prefilledGradeSlots(lockedGrids, grades)
	alreadyCovered := map[string]bool{}
	if !opts.AllowStudyHallReassignment {
		alreadyCovered = coveredStudyHallGroups(lockedGrids)
	}

	var studyHallGroups []studyhall.Group
	if rulesSet.StudyHallDistribution() {
		studyHallGroups = buildStudyHallGroups(rulesSet.StudyHallGrades(), grades)
	}
	eligibility := rulesSet.StudyHallTeacherEligibility()

	teacherNames := make([]string, len(teachers))
	for i, t := range teachers {
		teacherNames[i] = t.Name
	}
	redistributeTeachers := make([]models.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if _, locked := lockedGrids[t.Name]; locked {
			continue
		}
		redistributeTeachers = append(redistributeTeachers, t)
	}

	topSeed := topLevelSeed(opts.Seed)

	teacherBySession := make(map[int]string, len(sessions))
	for _, s := range sessions {
		teacherBySession[s.ID] = s.Teacher
	}

	var candidates []score.Candidate
	var counts attemptCounts
	foundSolutionTeachers := map[string]bool{}

	onProgress(0, cfg.NumAttempts, "starting generation")

	for attempt := 0; attempt < cfg.NumAttempts; attempt++ {
		onProgress(attempt, cfg.NumAttempts, fmt.Sprintf("attempt %d/%d", attempt+1, cfg.NumAttempts))
		runtime.Gosched()

		attemptSeed := deriveSeed(topSeed, attempt)
		deprioritize := score.SampleDeprioritized(teacherNames, solver.NewMulberry32(attemptSeed+1), 0.3)
		for name := range foundSolutionTeachers {
			deprioritize[name] = true
		}

		onProgress(attempt, cfg.NumAttempts, "solving")
		start := time.Now()
		result := solver.Solve(sessions, build.Groups, solver.Options{
			Grades:               grades,
			Rules:                rulesSet,
			PrefilledGradeSlots:  prefilled,
			DeprioritizeTeachers: deprioritize,
			MaxTimeMs:            cfg.TimeoutPerAttemptMs,
			Randomize:            true,
			Seed:                 attemptSeed,
		})
		elapsed := time.Since(start)
		e.metrics.ObserveAttempt(result.Status.String(), elapsed)
		e.logger.Debug("attempt finished", zap.Int("attempt", attempt), zap.String("status", result.Status.String()), zap.Duration("elapsed", elapsed))

		switch result.Status {
		case models.SolveTimeout:
			counts.timeout++
			continue
		case models.SolveInfeasible:
			counts.infeasible++
			continue
		}
		counts.optimal++

		teacherGrids, _ := schedulebuilder.Build(sessions, result.Assignment, grades)
		for name, grid := range lockedGrids {
			teacherGrids[name] = grid
		}

		shGroupSeed := attemptSeed
		gradeGrids := schedulebuilder.RebuildGradeGrids(teacherGrids, grades)
		studyHallAssignments := studyhall.Place(studyhall.Options{
			TeacherGrids:         teacherGrids,
			GradeGrids:           gradeGrids,
			Teachers:             teachers,
			Eligibility:          eligibility,
			Groups:               studyHallGroups,
			RequiredTeachers:     opts.TeachersNeedingStudyHalls,
			AlreadyCoveredGroups: alreadyCovered,
			Shuffle:              true,
			Seed:                 shGroupSeed,
		})
		schedulebuilder.FillOpen(teacherGrids, teacherNames)

		gradeGrids = redistribute.Run(teacherGrids, redistributeTeachers, rulesSet, grades)

		teacherStats, backToBackIssues, studyHallsPlaced := stats.Compute(teacherGrids, teachers)
		studyHallAssignments = stats.ReconcileStudyHallAssignments(teacherGrids, studyHallAssignments)

		s := score.Compute(teacherGrids, teachers, studyHallsPlaced, backToBackIssues, len(studyHallGroups), rulesSet)

		option := models.ScheduleOption{
			Seed:                 uint64(attemptSeed),
			TeacherGrids:         teacherGrids,
			GradeGrids:           gradeGrids,
			StudyHallAssignments: studyHallAssignments,
			TeacherStats:         teacherStats,
			BackToBackIssues:     backToBackIssues,
			StudyHallsPlaced:     studyHallsPlaced,
			Score:                s,
		}
		candidates = append(candidates, score.Candidate{Option: option, TeacherGrids: teacherGrids})

		for sessID := range result.Assignment {
			if name, ok := teacherBySession[sessID]; ok {
				foundSolutionTeachers[name] = true
			}
		}
	}

	if len(candidates) == 0 {
		if counts.infeasible > 0 {
			return &dto.GenerateResponse{Status: dto.StatusInfeasible, Message: appErrors.ErrInfeasibleConstrain.Message}, nil
		}
		return &dto.GenerateResponse{Status: dto.StatusInfeasible, Message: appErrors.ErrInfeasibleTimeout.Message}, nil
	}

	survivors := score.SelectDiverse(candidates, cfg.NumOptions)
	e.metrics.SetDiversityUnderfill(cfg.NumOptions - len(survivors))

	views := make([]dto.ScheduleOptionView, len(survivors))
	for i, c := range survivors {
		c.Option.OptionNumber = i + 1
		views[i] = dto.FromOption(c.Option)
	}

	resp := &dto.GenerateResponse{Status: dto.StatusSuccess, Options: views}
	if len(lockedGrids) > 0 {
		resp.Message = fmt.Sprintf("refined schedule: %d locked teacher row(s), %d blocked grade-slot(s)", len(lockedGrids), countOccupied(prefilled))
	}

	proposalID := uuid.NewString()
	if err := e.store.Save(ctx, proposalID, *resp); err != nil {
		e.logger.Warn("failed to cache proposal", zap.Error(err))
	}

	return resp, nil
}

// buildStudyHallGroups resolves each configured grade name into its own
// one-grade study-hall group, per the rule-driven (non-legacy) design.
func buildStudyHallGroups(gradeNames []string, grades models.GradeSet) []studyhall.Group {
	out := make([]studyhall.Group, 0, len(gradeNames))
	for _, name := range gradeNames {
		out = append(out, studyhall.Group{Name: name, Grades: gradeparser.Parse(name, grades)})
	}
	return out
}

// prefilledGradeSlots marks, for every locked teacher's non-idle cell,
// the (grade, slot) pairs the solver must treat as already occupied.
func prefilledGradeSlots(lockedGrids map[string]models.TeacherGrid, grades models.GradeSet) map[string]map[int]bool {
	out := make(map[string]map[int]bool)
	for _, grid := range lockedGrids {
		for slot, cell := range grid {
			if cell == nil || cell.Subject == models.SubjectOpen {
				continue
			}
			for _, g := range gradeparser.Parse(cell.GradeDisplay, grades) {
				if out[g] == nil {
					out[g] = make(map[int]bool)
				}
				out[g][slot] = true
			}
		}
	}
	return out
}

// coveredStudyHallGroups finds study-hall groups already satisfied by a
// locked teacher row, so the placer does not try to move them when
// allowStudyHallReassignment is false.
func coveredStudyHallGroups(lockedGrids map[string]models.TeacherGrid) map[string]bool {
	out := map[string]bool{}
	for _, grid := range lockedGrids {
		for _, cell := range grid {
			if cell != nil && cell.Subject == models.SubjectStudyHall {
				out[cell.GradeDisplay] = true
			}
		}
	}
	return out
}

func countOccupied(prefilled map[string]map[int]bool) int {
	n := 0
	for _, slots := range prefilled {
		n += len(slots)
	}
	return n
}

// topLevelSeed returns the caller-supplied seed, or draws a fresh one from
// a UUID's first 8 bytes when omitted.
func topLevelSeed(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	id := uuid.New()
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(id[i])
	}
	return v
}

// deriveSeed folds the top-level seed and the attempt index into a
// 32-bit mulberry32 seed, so every attempt is reproducible from the
// top-level seed alone.
func deriveSeed(topSeed uint64, attempt int) uint32 {
	mixed := topSeed + uint64(attempt)*0x9E3779B97F4A7C15
	return uint32(mixed ^ (mixed >> 32))
}
