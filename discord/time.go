package discord

import (
	"encoding/json"
	"strconv"
	"time"
)

type Timestamp time.Time

const TimestampFormat = time.RFC3339 // same as ISO8601

var (
	_ json.Unmarshaler = (*Timestamp)(nil)
	_ json.Marshaler   = (*Timestamp)(nil)
)

// NowTimestamp returns the current timestamp.
func NowTimestamp() Timestamp {
	return NewTimestamp(time.Now())
}

// NewTimestamp creates a new timestamp from the given time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

func (t *Timestamp) UnmarshalJSON(v []byte) error {
	str := string(v)
	if str == "null" { // freezes the timestamp to zero
		return nil
	}

	str, err := strconv.Unquote(str)
	if err != nil {
		return err
	}

	r, err := time.Parse(TimestampFormat, str)
	if err != nil {
		return err
	}

	*t = Timestamp(r)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.IsValid() {
		return []byte("null"), nil
	}

	return []byte(`"` + t.Format(TimestampFormat) + `"`), nil
}

func (t Timestamp) IsValid() bool {
	return !t.Time().IsZero()
}

func (t Timestamp) Format(fmt string) string {
	return t.Time().Format(fmt)
}

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

//

// UnixTimestamp is a timestamp in seconds.
type UnixTimestamp int64

func (t UnixTimestamp) String() string {
	return t.Time().String()
}

func (t UnixTimestamp) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// UnixMsTimestamp is a timestamp in milliseconds.
type UnixMsTimestamp int64

func TimeToMilliseconds(t time.Time) UnixMsTimestamp {
	return UnixMsTimestamp(t.UnixNano() / int64(time.Millisecond))
}

func (t UnixMsTimestamp) String() string {
	return t.Time().String()
}

func (t UnixMsTimestamp) Time() time.Time {
	return time.Unix(0, int64(t)*int64(time.Millisecond))
}

// Milliseconds is a duration in milliseconds.
type Milliseconds float64

func DurationToMilliseconds(dura time.Duration) Milliseconds {
	return Milliseconds(dura.Milliseconds())
}

func (ms Milliseconds) Duration() time.Duration {
	return time.Duration(float64(ms) * float64(time.Millisecond))
}
