package model

import (
	"strconv"
	"time"
)

// DateFormat is the wire format for every date in the API.
const DateFormat = "2006-01-02"

// Date marshals as YYYY-MM-DD instead of RFC 3339.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date { return Date{Time: t} }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.Format(DateFormat))), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
