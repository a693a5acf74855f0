package models

import (
	"encoding/json"
	"fmt"
)

// Status is the tri-state completion value for a habit on a calendar day.
//
// Incomplete and Complete mirror the 0/1 stored in the database; Unset means
// no entry row has been materialized for that day and is represented as JSON
// null in serialized heatmap rows. Note the zero value of Status is
// StatusIncomplete, so week bitmaps must be initialized with EmptyWeek, not
// their zero value.
type Status int

const (
	StatusUnset      Status = -1
	StatusIncomplete Status = 0
	StatusComplete   Status = 1
)

// Next returns the status a toggle action transitions to. A never-seen day
// toggles straight to Complete because the user's tap is an explicit
// completion intent; after that the value oscillates between Complete and
// Incomplete.
func (s Status) Next() Status {
	if s == StatusComplete {
		return StatusIncomplete
	}
	return StatusComplete
}

// Valid reports whether s is one of the three defined states.
func (s Status) Valid() bool {
	return s == StatusUnset || s == StatusIncomplete || s == StatusComplete
}

func (s Status) String() string {
	switch s {
	case StatusUnset:
		return "unset"
	case StatusIncomplete:
		return "incomplete"
	case StatusComplete:
		return "complete"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalJSON serializes Unset as null and the other states as bare 0/1,
// matching the persisted heatmap row format.
func (s Status) MarshalJSON() ([]byte, error) {
	if s == StatusUnset {
		return []byte("null"), nil
	}
	if !s.Valid() {
		return nil, fmt.Errorf("cannot serialize invalid status %d", int(s))
	}
	return json.Marshal(int(s))
}

// UnmarshalJSON parses null as Unset and accepts only 0 or 1 otherwise.
func (s *Status) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = StatusUnset
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v != 0 && v != 1 {
		return fmt.Errorf("invalid status value %d (want 0 or 1)", v)
	}
	*s = Status(v)
	return nil
}

// WeekStatuses is the 7-slot completion bitmap for one habit week.
// Index 0 is Monday, index 6 is Sunday.
type WeekStatuses [7]Status

// EmptyWeek returns a bitmap with every slot Unset.
func EmptyWeek() WeekStatuses {
	var w WeekStatuses
	for i := range w {
		w[i] = StatusUnset
	}
	return w
}

// Encode serializes the bitmap as the fixed-length JSON array stored in the
// statuses column, e.g. [1,null,0,null,null,null,null].
func (w WeekStatuses) Encode() (string, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeWeek parses a serialized statuses column. The array must hold
// exactly 7 slots; anything else is a corrupt cache row.
func DecodeWeek(raw string) (WeekStatuses, error) {
	var slots []Status
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return EmptyWeek(), fmt.Errorf("failed to parse week statuses: %w", err)
	}
	if len(slots) != 7 {
		return EmptyWeek(), fmt.Errorf("week statuses has %d slots (want 7)", len(slots))
	}
	var w WeekStatuses
	copy(w[:], slots)
	return w, nil
}
