package clock

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// The two ways a tick payload can be unusable. Callers can tell them
// apart with errors.Is.
var (
	ErrNotText = errors.New("payload is not valid UTF-8 text")
	ErrNotTime = errors.New("payload is not a valid time value")
)

// LocalTime is a wall-clock time as delivered over the tick topic.
type LocalTime struct {
	Hour   uint8 `json:"hour"`
	Minute uint8 `json:"minute"`
	Second uint8 `json:"second"`
}

func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ParseLocalTime decodes a raw tick payload. The payload must be UTF-8
// text holding a JSON object with the integer fields "hour", "minute" and
// "second"; all three are required, unknown fields are ignored. A failed
// parse leaves no trace anywhere, the caller is expected to log it
// together with the raw payload.
func ParseLocalTime(payload []byte) (LocalTime, error) {
	if !utf8.Valid(payload) {
		return LocalTime{}, ErrNotText
	}

	var raw struct {
		Hour   *uint8 `json:"hour"`
		Minute *uint8 `json:"minute"`
		Second *uint8 `json:"second"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return LocalTime{}, fmt.Errorf("%w: %v", ErrNotTime, err)
	}
	if raw.Hour == nil || raw.Minute == nil || raw.Second == nil {
		return LocalTime{}, fmt.Errorf("%w: hour, minute and second are all required", ErrNotTime)
	}
	return LocalTime{Hour: *raw.Hour, Minute: *raw.Minute, Second: *raw.Second}, nil
}
