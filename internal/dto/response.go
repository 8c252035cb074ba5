package dto

import "github.com/noah-isme/k11-scheduler/internal/models"

// Status values for GenerateResponse.
const (
	StatusSuccess    = "success"
	StatusInfeasible = "infeasible"
	StatusError      = "error"
)

// TeacherCellView is one non-empty teacher grid cell on the wire.
type TeacherCellView struct {
	GradeDisplay string `json:"gradeDisplay"`
	Subject      string `json:"subject"`
}

// GradeCellView is one non-empty grade grid cell on the wire.
type GradeCellView struct {
	Teacher string `json:"teacher"`
	Subject string `json:"subject"`
}

// GridView is a [day][block] dense view, day-major, matching the fixed
// 5-day x 5-block calendar named in models.DayNames / models.Blocks.
type GridView [5][5]*TeacherCellView

// GradeGridView is the grade-grid analogue of GridView.
type GradeGridView [5][5]*GradeCellView

// TeacherStatsView mirrors models.TeacherStats for the wire.
type TeacherStatsView struct {
	Teaching   int  `json:"teaching"`
	StudyHall  int  `json:"studyHall"`
	Open       int  `json:"open"`
	TotalUsed  int  `json:"totalUsed"`
	BackToBack int  `json:"backToBack"`
	IsFullTime bool `json:"isFullTime"`
}

// StudyHallAssignmentView mirrors models.StudyHallAssignment for the wire.
type StudyHallAssignmentView struct {
	Group   string `json:"group"`
	Teacher string `json:"teacher,omitempty"`
	Day     string `json:"day,omitempty"`
	Block   int    `json:"block,omitempty"`
	Placed  bool   `json:"placed"`
}

// ScheduleOptionView is one complete candidate timetable on the wire.
type ScheduleOptionView struct {
	OptionNumber         int                                `json:"optionNumber"`
	Seed                 uint64                             `json:"seed"`
	TeacherGrids         map[string]GridView                `json:"teacherGrids"`
	GradeGrids           map[string]GradeGridView           `json:"gradeGrids"`
	StudyHallAssignments []StudyHallAssignmentView          `json:"studyHallAssignments"`
	TeacherStats         map[string]TeacherStatsView         `json:"teacherStats"`
	BackToBackIssues     int                                `json:"backToBackIssues"`
	StudyHallsPlaced     int                                `json:"studyHallsPlaced"`
	Score                float64                            `json:"score"`
}

// GenerateResponse is the full generation output contract.
type GenerateResponse struct {
	Status  string               `json:"status"`
	Message string               `json:"message,omitempty"`
	Options []ScheduleOptionView `json:"options"`
}

// ToGridView projects a dense TeacherGrid into its day/block wire shape.
func ToGridView(grid models.TeacherGrid) GridView {
	var out GridView
	for slot, cell := range grid {
		if cell == nil {
			continue
		}
		d, b := models.DayOf(slot), models.BlockOf(slot)
		v := TeacherCellView{GradeDisplay: cell.GradeDisplay, Subject: cell.Subject}
		out[d][b] = &v
	}
	return out
}

// ToGradeGridView projects a dense GradeGrid into its wire shape.
func ToGradeGridView(grid models.GradeGrid) GradeGridView {
	var out GradeGridView
	for slot, cell := range grid {
		if cell == nil {
			continue
		}
		d, b := models.DayOf(slot), models.BlockOf(slot)
		v := GradeCellView{Teacher: cell.Teacher, Subject: cell.Subject}
		out[d][b] = &v
	}
	return out
}

// FromOption converts one domain schedule option into its wire view.
func FromOption(opt models.ScheduleOption) ScheduleOptionView {
	teacherGrids := make(map[string]GridView, len(opt.TeacherGrids))
	for name, grid := range opt.TeacherGrids {
		teacherGrids[name] = ToGridView(grid)
	}
	gradeGrids := make(map[string]GradeGridView, len(opt.GradeGrids))
	for name, grid := range opt.GradeGrids {
		gradeGrids[name] = ToGradeGridView(grid)
	}
	stats := make(map[string]TeacherStatsView, len(opt.TeacherStats))
	for name, st := range opt.TeacherStats {
		stats[name] = TeacherStatsView{
			Teaching:   st.Teaching,
			StudyHall:  st.StudyHall,
			Open:       st.Open,
			TotalUsed:  st.TotalUsed,
			BackToBack: st.BackToBack,
			IsFullTime: st.IsFullTime,
		}
	}
	assignments := make([]StudyHallAssignmentView, len(opt.StudyHallAssignments))
	for i, a := range opt.StudyHallAssignments {
		assignments[i] = StudyHallAssignmentView{
			Group: a.Group, Teacher: a.Teacher, Day: a.Day, Block: a.Block, Placed: a.Placed,
		}
	}
	return ScheduleOptionView{
		OptionNumber:         opt.OptionNumber,
		Seed:                 opt.Seed,
		TeacherGrids:         teacherGrids,
		GradeGrids:           gradeGrids,
		StudyHallAssignments: assignments,
		TeacherStats:         stats,
		BackToBackIssues:     opt.BackToBackIssues,
		StudyHallsPlaced:     opt.StudyHallsPlaced,
		Score:                opt.Score,
	}
}
