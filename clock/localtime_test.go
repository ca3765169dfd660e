package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocalTime(t *testing.T) {
	lt, err := ParseLocalTime([]byte(`{"hour":6,"minute":30,"second":0}`))
	assert.NoError(t, err)
	assert.Equal(t, LocalTime{Hour: 6, Minute: 30, Second: 0}, lt)
}

func TestParseLocalTime_IgnoresUnknownFields(t *testing.T) {
	lt, err := ParseLocalTime([]byte(`{"hour":23,"minute":59,"second":59,"tz":"UTC"}`))
	assert.NoError(t, err)
	assert.Equal(t, LocalTime{Hour: 23, Minute: 59, Second: 59}, lt)
}

func TestParseLocalTime_NotJSON(t *testing.T) {
	_, err := ParseLocalTime([]byte(`not json`))
	assert.ErrorIs(t, err, ErrNotTime)
	assert.NotErrorIs(t, err, ErrNotText, "valid text must not be classified as a text error")
}

func TestParseLocalTime_InvalidUTF8(t *testing.T) {
	_, err := ParseLocalTime([]byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, ErrNotText)
	assert.NotErrorIs(t, err, ErrNotTime)
}

func TestParseLocalTime_MissingField(t *testing.T) {
	_, err := ParseLocalTime([]byte(`{"hour":6,"minute":30}`))
	assert.ErrorIs(t, err, ErrNotTime)

	_, err = ParseLocalTime([]byte(`{}`))
	assert.ErrorIs(t, err, ErrNotTime)
}

func TestParseLocalTime_OutOfRangeValue(t *testing.T) {
	_, err := ParseLocalTime([]byte(`{"hour":300,"minute":0,"second":0}`))
	assert.ErrorIs(t, err, ErrNotTime, "values outside a byte must be rejected")

	_, err = ParseLocalTime([]byte(`{"hour":-1,"minute":0,"second":0}`))
	assert.ErrorIs(t, err, ErrNotTime)
}

func TestParseLocalTime_WrongShape(t *testing.T) {
	_, err := ParseLocalTime([]byte(`[6,30,0]`))
	assert.ErrorIs(t, err, ErrNotTime)

	_, err = ParseLocalTime([]byte(`"06:30:00"`))
	assert.ErrorIs(t, err, ErrNotTime)
}

func TestLocalTime_String(t *testing.T) {
	assert.Equal(t, "06:30:00", LocalTime{Hour: 6, Minute: 30}.String())
	assert.Equal(t, "23:05:09", LocalTime{Hour: 23, Minute: 5, Second: 9}.String())
}
