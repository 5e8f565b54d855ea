// Package streak counts consecutive clean divisions.
//
// A streak is the number of times a divisor has divided the iteration value
// cleanly, counted backward from the current iteration, without one of its
// rival divisors having divided an iteration in between. It drives the
// escalating suffixes of streak rules ("Fizz", "Fizz+", "Fizz++", ...).
//
// The functions here are pure: they depend only on their arguments and
// carry no state between iterations.
package streak

import "slices"

// CountUninterrupted returns how many clean divisions by divisor occurred in
// 1..=i up to and including i, without being interrupted by any of rivals.
// It returns 0 if divisor does not divide i.
//
// For i = 8, divisor = 2 and rivals = [5]: 8 and 6 are divided cleanly with no
// rival division between them, while the division at 4 lies before the
// rival's division at 5. The result is 2.
//
// When a rival divides the same iteration as divisor, that iteration counts
// as an interruption, not as part of the streak. A rival dividing i itself
// therefore yields 0.
//
// Panics if divisor or any rival is zero. Callers validate beforehand.
func CountUninterrupted(i, divisor uint32, rivals []uint32) uint32 {
	if divisor == 0 || slices.Contains(rivals, 0) {
		panic("streak: divisor and rivals must be non-zero")
	}

	if i%divisor != 0 {
		return 0
	}

	// first clean division
	if divisor == i {
		return 1
	}

	total := i / divisor
	if len(rivals) == 0 || slices.Min(rivals) > i {
		return total
	}

	count := total
	for _, r := range rivals {
		last, ok := LastInterruption(i, r)
		if !ok {
			continue
		}
		count = min(count, contribution(i-last, divisor))
	}
	return count
}

// LastInterruption returns the most recent iteration in 1..=i that rival
// divides cleanly. ok is false if rival has not divided any iteration yet.
func LastInterruption(i, rival uint32) (last uint32, ok bool) {
	last = i - i%rival
	return last, last > 0
}

// contribution bounds the streak given the distance from the rival's last
// clean division. If that division was also a clean division by divisor, it
// is an interruption and does not count.
func contribution(delta, divisor uint32) uint32 {
	if delta%divisor == 0 {
		return delta / divisor
	}
	return delta/divisor + 1
}
