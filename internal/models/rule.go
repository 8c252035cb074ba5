package models

// Rule keys consulted by the engine. See internal/rules for lookup
// semantics (fail-open: an absent key behaves as enabled).
const (
	RuleNoDuplicateSubjects     = "no_duplicate_subjects"
	RuleNoBackToBackOpen        = "no_btb_open"
	RuleSpreadOpen              = "spread_open"
	RuleStudyHallDistribution   = "study_hall_distribution"
	RuleStudyHallGrades         = "study_hall_grades"
	RuleStudyHallTeacherElig    = "study_hall_teacher_eligibility"
)

// Rule is one name/enabled/config triple as supplied on the wire.
type Rule struct {
	Key     string
	Enabled bool
	Config  map[string]any
}

// StudyHallGradesConfig is the decoded shape of RuleStudyHallGrades config.
type StudyHallGradesConfig struct {
	Grades []string
}

// StudyHallEligibilityConfig is the decoded shape of RuleStudyHallTeacherElig config.
type StudyHallEligibilityConfig struct {
	AllowFullTime bool
	AllowPartTime bool
}
