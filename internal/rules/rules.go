// Package rules answers "is rule X enabled?" and "what is rule X's
// config?" over the flat rule list supplied with a generation request,
// with fail-open semantics: an absent key behaves as enabled.
package rules

import "github.com/noah-isme/k11-scheduler/internal/models"

// Set is a lookup-ready view over a generation request's rule list.
type Set struct {
	byKey map[string]models.Rule
}

// NewSet indexes rules by key. A later duplicate key overrides an earlier one.
func NewSet(list []models.Rule) Set {
	byKey := make(map[string]models.Rule, len(list))
	for _, r := range list {
		byKey[r.Key] = r
	}
	return Set{byKey: byKey}
}

// Enabled reports whether key is active. Absent keys are fail-open (true).
func (s Set) Enabled(key string) bool {
	r, ok := s.byKey[key]
	if !ok {
		return true
	}
	return r.Enabled
}

// Config returns the rule's attached config, if any.
func (s Set) Config(key string) (map[string]any, bool) {
	r, ok := s.byKey[key]
	if !ok || r.Config == nil {
		return nil, false
	}
	return r.Config, true
}

// NoDuplicateSubjects gates the same-day duplicate-subject constraint.
func (s Set) NoDuplicateSubjects() bool {
	return s.Enabled(models.RuleNoDuplicateSubjects)
}

// NoBackToBackOpen gates the redistributor and back-to-back counting.
func (s Set) NoBackToBackOpen() bool {
	return s.Enabled(models.RuleNoBackToBackOpen)
}

// SpreadOpen gates the secondary day-spread scoring objective.
func (s Set) SpreadOpen() bool {
	return s.Enabled(models.RuleSpreadOpen)
}

// StudyHallDistribution gates running the study-hall placer at all.
func (s Set) StudyHallDistribution() bool {
	return s.Enabled(models.RuleStudyHallDistribution)
}

// StudyHallGrades returns the grades requiring a study hall. An empty
// list (including an absent config) disables placement regardless of
// StudyHallDistribution's enabled flag.
func (s Set) StudyHallGrades() []string {
	cfg, ok := s.Config(models.RuleStudyHallGrades)
	if !ok {
		return nil
	}
	raw, ok := cfg["grades"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// StudyHallTeacherEligibility decodes the teacher-eligibility config.
// Default is full-time only. If both flags are explicitly false, the
// engine silently treats full-time as allowed anyway (a study-hall rule
// that excludes every teacher is never honored).
func (s Set) StudyHallTeacherEligibility() models.StudyHallEligibilityConfig {
	out := models.StudyHallEligibilityConfig{AllowFullTime: true}
	cfg, ok := s.Config(models.RuleStudyHallTeacherElig)
	if !ok {
		return out
	}
	if v, ok := cfg["allow_full_time"].(bool); ok {
		out.AllowFullTime = v
	}
	if v, ok := cfg["allow_part_time"].(bool); ok {
		out.AllowPartTime = v
	}
	if !out.AllowFullTime && !out.AllowPartTime {
		out.AllowFullTime = true
	}
	return out
}
