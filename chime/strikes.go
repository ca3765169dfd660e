// Package chime strikes the hour over the audio output. Builds without
// CGO get a stub that only logs.
package chime

// strikeCount maps an hour to the number of strikes on a twelve hour
// dial: one at one o'clock, twelve at noon and at midnight.
func strikeCount(hour uint8) int {
	n := int(hour % 12)
	if n == 0 {
		n = 12
	}
	return n
}
