package clock

// Led is the color of a single ring pixel. All arithmetic on channels
// saturates at 255, it never wraps.
type Led struct {
	Red   byte
	Green byte
	Blue  byte
}

// True if all components are zero, false otherwise
func (s Led) IsEmpty() bool {
	return s.Red == 0 && s.Green == 0 && s.Blue == 0
}

// Scale multiplies every channel by factor, clamping each channel
// independently at 255. Factor 0 yields the zero color, factor 1 is the
// identity.
func (s Led) Scale(factor byte) Led {
	return Led{
		Red:   satMul(s.Red, factor),
		Green: satMul(s.Green, factor),
		Blue:  satMul(s.Blue, factor),
	}
}

// Add blends another color in by pairwise channel addition, clamping each
// channel independently at 255.
func (s Led) Add(in Led) Led {
	return Led{
		Red:   satAdd(s.Red, in.Red),
		Green: satAdd(s.Green, in.Green),
		Blue:  satAdd(s.Blue, in.Blue),
	}
}

func satMul(a, b byte) byte {
	v := int(a) * int(b)
	if v > 255 {
		return 255
	}
	return byte(v)
}

func satAdd(a, b byte) byte {
	v := int(a) + int(b)
	if v > 255 {
		return 255
	}
	return byte(v)
}
