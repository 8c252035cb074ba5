// Package gradeparser resolves a free-text grade display string ("6th
// Grade", "6th-11th Grade", "Kindergarten", "Art Elective") against a
// supplied grade vocabulary, the way the session builder and solver need
// to in order to know which concrete grades a class occupies.
package gradeparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/noah-isme/k11-scheduler/internal/models"
)

var (
	rangePattern  = regexp.MustCompile(`(?i)(\d+)(?:st|nd|rd|th)?\s*-\s*(\d+)(?:st|nd|rd|th)?`)
	numberPattern = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)?`)
)

// Parse resolves display against the available grade vocabulary.
//
// Rules, applied in order:
//   - a display containing "elective" (any case) resolves to [] — electives
//     never consume a grade slot;
//   - a direct match against an available grade name is a singleton;
//   - a range like "6th-11th" returns every available grade whose
//     SortOrder falls in [min,max], ascending;
//   - a single number returns the available grade with that SortOrder, if any;
//   - "kindergarten" (any casing, substring) returns the available
//     Kindergarten grade;
//   - anything else resolves to [].
//
// The result is always a subset of grades.All() — Parse never invents a
// grade name that wasn't supplied.
func Parse(display string, grades models.GradeSet) []string {
	if grades.Len() == 0 {
		return nil
	}
	trimmed := strings.TrimSpace(display)
	lower := strings.ToLower(trimmed)

	if strings.Contains(lower, "elective") {
		return nil
	}

	if g, ok := grades.ByName(trimmed); ok {
		return []string{g.Name}
	}

	if m := rangePattern.FindStringSubmatch(trimmed); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo == nil && errHi == nil {
			if lo > hi {
				lo, hi = hi, lo
			}
			return gradesInRange(grades, lo, hi)
		}
	}

	if m := numberPattern.FindStringSubmatch(trimmed); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			for _, g := range grades.All() {
				if g.SortOrder == n {
					return []string{g.Name}
				}
			}
		}
	}

	if strings.Contains(lower, "kindergarten") {
		for _, g := range grades.All() {
			if strings.EqualFold(g.Name, "Kindergarten") {
				return []string{g.Name}
			}
		}
	}

	return nil
}

func gradesInRange(grades models.GradeSet, lo, hi int) []string {
	var matched []models.Grade
	for _, g := range grades.All() {
		if g.SortOrder >= lo && g.SortOrder <= hi {
			matched = append(matched, g)
		}
	}
	sortGradesByOrder(matched)
	out := make([]string, len(matched))
	for i, g := range matched {
		out[i] = g.Name
	}
	return out
}

func sortGradesByOrder(grades []models.Grade) {
	for i := 1; i < len(grades); i++ {
		j := i
		for j > 0 && grades[j-1].SortOrder > grades[j].SortOrder {
			grades[j-1], grades[j] = grades[j], grades[j-1]
			j--
		}
	}
}
