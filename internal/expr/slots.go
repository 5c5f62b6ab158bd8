package expr

import "slices"

// slotAllocator issues scratch slot ids during linearization. take always
// returns the smallest id not currently outstanding, so the peak tracks
// the live-range width of the tree rather than its operator count.
// Freeing an operand's slot only after its last use is the linearizer's
// responsibility.
type slotAllocator struct {
	used []int // outstanding ids, sorted ascending
	peak int
}

// take issues the smallest free slot id and marks it outstanding.
func (s *slotAllocator) take() int {
	first := 0
	if len(s.used) > 0 {
		first = s.findFirstMissing(0, len(s.used)-1)
	}
	s.used = slices.Insert(s.used, first, first)
	if first+1 > s.peak {
		s.peak = first + 1
	}
	return first
}

// give returns a slot id to the free pool. Unknown ids are ignored.
func (s *slotAllocator) give(slot int) {
	if i, ok := slices.BinarySearch(s.used, slot); ok {
		s.used = slices.Delete(s.used, i, i+1)
	}
}

// outstanding returns the number of ids currently held.
func (s *slotAllocator) outstanding() int { return len(s.used) }

// peakUsed returns the high-water mark of simultaneously outstanding ids.
func (s *slotAllocator) peakUsed() int { return s.peak }

// findFirstMissing returns the smallest value absent from used[start..end].
// used is sorted and duplicate free, so a position whose stored value
// equals its index means every value up to it is present and the gap lies
// to the right; otherwise the gap is at or left of the position.
func (s *slotAllocator) findFirstMissing(start, end int) int {
	if start > end {
		return end + 1
	}
	if start != s.used[start] {
		return start
	}
	mid := (start + end) / 2
	if s.used[mid] == mid {
		return s.findFirstMissing(mid+1, end)
	}
	return s.findFirstMissing(start, mid)
}
