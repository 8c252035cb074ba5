package models

// Session is one atomic placement request produced by the session
// builder: either one of a class's daysPerWeek free-placement occurrences,
// or one of its fixed slots.
type Session struct {
	ID             int
	Teacher        string
	GradeDisplay   string
	Grades         []string
	Subject        string
	ValidSlots     []int
	IsFixed        bool
	CotaughtGroupID *int
	ClassIndex     int
}

// Group is a co-taught group: the set of session indices (into the
// Sessions slice of the same build) that must share one slot. Sessions
// reference their group by index (CotaughtGroupID), never by pointer.
type Group struct {
	ID       int
	Sessions []int
}

// BuildResult is the output of the session builder: the flat session list
// plus the co-teaching groups derived from it.
type BuildResult struct {
	Sessions []Session
	Groups   []Group
}
