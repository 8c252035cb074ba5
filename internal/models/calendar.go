package models

// DayNames is the fixed 5-day week the grid is built on. Never mutate.
var DayNames = [5]string{"Mon", "Tues", "Wed", "Thurs", "Fri"}

// Blocks are the fixed per-day teaching periods, 1-indexed. Never mutate.
var Blocks = [5]int{1, 2, 3, 4, 5}

const (
	// SlotsPerWeek is the size of the dense weekly grid (5 days x 5 blocks).
	SlotsPerWeek = len(DayNames) * len(Blocks)

	// SubjectOpen marks an idle teacher cell.
	SubjectOpen = "OPEN"
	// SubjectStudyHall marks a supervised study-hall cell.
	SubjectStudyHall = "Study Hall"
)

// Slot encodes a (day, block) pair as day*5+block into [0, SlotsPerWeek).
func Slot(dayIndex, blockIndex int) int {
	return dayIndex*len(Blocks) + blockIndex
}

// DayOf decodes a slot back into its day index.
func DayOf(slot int) int {
	return slot / len(Blocks)
}

// BlockOf decodes a slot back into its block index (0-based position, not the block number).
func BlockOf(slot int) int {
	return slot % len(Blocks)
}

// AllSlots returns every valid slot index, in (day, block) order.
func AllSlots() []int {
	slots := make([]int, SlotsPerWeek)
	for i := range slots {
		slots[i] = i
	}
	return slots
}
