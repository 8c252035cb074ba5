// Package dto holds the wire-facing request/response shapes consumed by
// internal/engine (and, optionally, the HTTP wrapper), mirroring the
// teacher repo's dto/models split for its own scheduler.
package dto

// TeacherInput is one roster entry on the wire.
type TeacherInput struct {
	Name                  string `json:"name" validate:"required"`
	Status                string `json:"status" validate:"required,oneof=full-time part-time"`
	CanSuperviseStudyHall string `json:"canSuperviseStudyHall" validate:"omitempty,oneof=eligible excluded"`
}

// DayBlockInput is a human-facing (day name, 1-indexed block) pair.
type DayBlockInput struct {
	Day   string `json:"day" validate:"required"`
	Block int    `json:"block" validate:"required,min=1,max=5"`
}

// ClassInput is one teaching assignment on the wire.
type ClassInput struct {
	Teacher         string          `json:"teacher" validate:"required"`
	GradeDisplay    string          `json:"gradeDisplay" validate:"required"`
	Grades          []string        `json:"grades"`
	Subject         string          `json:"subject" validate:"required"`
	DaysPerWeek     int             `json:"daysPerWeek" validate:"min=0,max=5"`
	IsElective      bool            `json:"isElective"`
	AvailableDays   []string        `json:"availableDays"`
	AvailableBlocks []int           `json:"availableBlocks"`
	FixedSlots      []DayBlockInput `json:"fixedSlots"`
}

// RuleInput is one rule_key/enabled/config triple on the wire.
type RuleInput struct {
	Key     string         `json:"ruleKey" validate:"required"`
	Enabled bool           `json:"enabled"`
	Config  map[string]any `json:"config"`
}

// LockedCellInput is one cell of a caller-supplied locked teacher row,
// used when refining a previously generated schedule in place.
type LockedCellInput struct {
	Day          string `json:"day" validate:"required"`
	Block        int    `json:"block" validate:"required,min=1,max=5"`
	GradeDisplay string `json:"gradeDisplay"`
	Subject      string `json:"subject" validate:"required"`
}

// GenerateOptions governs the attempt loop. Zero values fall back to the
// engine's configured defaults (see pkg/config.GeneratorConfig).
type GenerateOptions struct {
	NumOptions                 int                           `json:"numOptions"`
	NumAttempts                int                            `json:"numAttempts"`
	TimeoutPerAttemptMs        int                            `json:"timeoutPerAttemptMs"`
	Seed                       *uint64                        `json:"seed"`
	LockedTeachers             map[string][]LockedCellInput   `json:"lockedTeachers"`
	TeachersNeedingStudyHalls  []string                       `json:"teachersNeedingStudyHalls"`
	AllowStudyHallReassignment bool                           `json:"allowStudyHallReassignment"`
}

// GenerateRequest is the full generation input contract.
// GenerateRequest is the full generation input contract. Classes and
// Grades are intentionally not tagged "required" here: an empty list for
// either is a meaningful domain condition (INPUT_NO_CLASSES /
// INPUT_NO_GRADES), checked explicitly by internal/engine rather than
// folded into generic validation failure.
type GenerateRequest struct {
	Teachers []TeacherInput   `json:"teachers" validate:"required,min=1,dive"`
	Classes  []ClassInput     `json:"classes" validate:"dive"`
	Rules    []RuleInput      `json:"rules" validate:"dive"`
	Grades   []string         `json:"grades"`
	Options  *GenerateOptions `json:"options"`
}
