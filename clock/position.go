package clock

// NumLeds is the number of pixels on the ring. Index 0 is the 1 o'clock
// position, indices increase clockwise, index 11 is 12 o'clock. Every
// mapping function below follows this convention.
const NumLeds = 12

// Frame is one complete ring state, one color per position.
type Frame [NumLeds]Led

// HourIndex maps an hour of day (0-23) to its ring position. The +11
// offset rotates the result so that hour 0 and hour 12 both land on index
// 11 (the 12 o'clock position) and hour 1 on index 0.
func HourIndex(hour uint8) int {
	return (int(hour) + 11) % 12
}

// MinuteIndex maps a minute (0-59) to its ring position in 5-minute
// buckets. The +55 offset shifts the zero point so that minutes 0-4 land
// on index 11 rather than index 0.
func MinuteIndex(minute uint8) int {
	return (int(minute) + 55) % 60 / 5
}

// SecondIndex maps a second (0-59) to its ring position, using the same
// 5-unit bucketing as MinuteIndex.
func SecondIndex(second uint8) int {
	return (int(second) + 55) % 60 / 5
}
