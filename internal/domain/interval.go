package domain

import (
	"slices"
	"strings"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Interval полуинтервал времени [Start, End) в пределах одних суток
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// IsValid returns true if Start < End
func (i Interval) IsValid() bool {
	return i.Start.IsBefore(i.End)
}

// Overlaps проверяет пересечение полуинтервалов.
// Строгие неравенства: интервалы, касающиеся концами (10:00 и 10:00), не пересекаются
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.IsBefore(other.End) && i.End.IsAfter(other.Start)
}

// Contains returns true if other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.IsBefore(i.Start) && !other.End.IsAfter(i.End)
}

// Subtract вычитает busy из i и возвращает от нуля до двух непустых кусков
func (i Interval) Subtract(busy Interval) []Interval {
	if !i.Overlaps(busy) {
		return []Interval{i}
	}

	pieces := make([]Interval, 0, 2)
	if busy.Start.IsAfter(i.Start) {
		left := Interval{Start: i.Start, End: minTime(busy.Start, i.End)}
		if left.IsValid() {
			pieces = append(pieces, left)
		}
	}
	if busy.End.IsBefore(i.End) {
		right := Interval{Start: maxTime(busy.End, i.Start), End: i.End}
		if right.IsValid() {
			pieces = append(pieces, right)
		}
	}
	return pieces
}

// FreeIntervals вычитает все занятые интервалы из каждого окна и возвращает
// отсортированный по началу список свободных интервалов.
// Входные слайсы не изменяются
func FreeIntervals(windows []Interval, busy []Interval) []Interval {
	free := make([]Interval, 0, len(windows))

	for _, window := range windows {
		segments := []Interval{window}
		for _, taken := range busy {
			next := make([]Interval, 0, len(segments)+1)
			for _, segment := range segments {
				next = append(next, segment.Subtract(taken)...)
			}
			segments = next
		}
		free = append(free, segments...)
	}

	return SortIntervals(free)
}

// ContainedInAny returns true if slot lies fully inside at least one window.
// Охват слота двумя соседними окнами не считается
func ContainedInAny(windows []Interval, slot Interval) bool {
	for _, w := range windows {
		if w.Contains(slot) {
			return true
		}
	}
	return false
}

// SortIntervals возвращает копию, отсортированную по началу (затем по концу)
func SortIntervals(intervals []Interval) []Interval {
	sorted := slices.Clone(intervals)
	if sorted == nil {
		sorted = []Interval{}
	}
	slices.SortFunc(sorted, func(a, b Interval) int {
		if c := strings.Compare(string(a.Start), string(b.Start)); c != 0 {
			return c
		}
		return strings.Compare(string(a.End), string(b.End))
	})
	return sorted
}

func minTime(a, b types.TimeString) types.TimeString {
	if a.IsBefore(b) {
		return a
	}
	return b
}

func maxTime(a, b types.TimeString) types.TimeString {
	if a.IsAfter(b) {
		return a
	}
	return b
}
