package entities

import (
	"fmt"
	"strings"
	"time"
)

// KeySeparator joins the three components of a slot wire key. Practitioner
// IDs that contain it cannot be encoded, which keeps the key collision-free.
const KeySeparator = "|"

// Date is a calendar date without a time-of-day component
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// DateOf extracts the calendar date of an instant in its own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddDays returns the date n calendar days after d
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return DateOf(t)
}

// At returns the instant at the given minute of the day in loc
func (d Date) At(minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, minute/60, minute%60, 0, 0, loc)
}

// Before reports whether d is earlier than other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// String renders the date as DD-MM-YYYY, the wire key date component
func (d Date) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}

// ParseDate parses a DD-MM-YYYY date component
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// SlotID uniquely identifies one bookable unit: a practitioner, a calendar
// date, and a start offset in minutes after midnight. Two identifiers are
// equal iff all three fields match.
type SlotID struct {
	PractitionerID string `json:"practitioner_id" db:"practitioner_id"`
	Date           Date   `json:"date" db:"slot_date"`
	StartMinute    int    `json:"start_minute" db:"start_minute"`
}

// Validate checks the identifier is well formed
func (id SlotID) Validate() error {
	if id.PractitionerID == "" {
		return fmt.Errorf("practitioner id is required")
	}
	if strings.Contains(id.PractitionerID, KeySeparator) {
		return fmt.Errorf("practitioner id must not contain %q", KeySeparator)
	}
	if id.StartMinute < 0 || id.StartMinute >= 24*60 {
		return fmt.Errorf("start minute %d out of range", id.StartMinute)
	}
	return nil
}

// TimeLabel renders the start offset as an HH:MM time-of-day label
func (id SlotID) TimeLabel() string {
	return fmt.Sprintf("%02d:%02d", id.StartMinute/60, id.StartMinute%60)
}

// StartTime returns the instant the slot begins in loc
func (id SlotID) StartTime(loc *time.Location) time.Time {
	return id.Date.At(id.StartMinute, loc)
}

// Key encodes the identifier as practitionerID|DD-MM-YYYY|HH:MM for use
// across the service boundary
func (id SlotID) Key() string {
	return id.PractitionerID + KeySeparator + id.Date.String() + KeySeparator + id.TimeLabel()
}

// ParseSlotKey decodes a wire key back into its three components
func ParseSlotKey(key string) (SlotID, error) {
	parts := strings.Split(key, KeySeparator)
	if len(parts) != 3 {
		return SlotID{}, fmt.Errorf("invalid slot key %q: expected 3 components, got %d", key, len(parts))
	}

	date, err := ParseDate(parts[1])
	if err != nil {
		return SlotID{}, fmt.Errorf("invalid slot key %q: %w", key, err)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(parts[2], "%02d:%02d", &hour, &minute); err != nil {
		return SlotID{}, fmt.Errorf("invalid slot key %q: bad time label: %w", key, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return SlotID{}, fmt.Errorf("invalid slot key %q: time label out of range", key)
	}

	id := SlotID{
		PractitionerID: parts[0],
		Date:           date,
		StartMinute:    hour*60 + minute,
	}
	if err := id.Validate(); err != nil {
		return SlotID{}, fmt.Errorf("invalid slot key %q: %w", key, err)
	}
	return id, nil
}

// CandidateSlot is a slot computed as potentially bookable. It is produced
// on each availability query and never persisted.
type CandidateSlot struct {
	ID        SlotID    `json:"id"`
	Key       string    `json:"key"`
	StartTime time.Time `json:"start_time"`
	Display   string    `json:"display"`
}

// DayBucket holds the candidate slots of one calendar day in start order
type DayBucket struct {
	Date  Date            `json:"date"`
	Slots []CandidateSlot `json:"slots"`
}

// PractitionerSchedule is the read-only operating configuration of one
// practitioner's calendar
type PractitionerSchedule struct {
	PractitionerID string `json:"practitioner_id" db:"practitioner_id"`
	OpenMinute     int    `json:"open_minute" db:"open_minute"`
	CloseMinute    int    `json:"close_minute" db:"close_minute"`
	SlotMinutes    int    `json:"slot_minutes" db:"slot_minutes"`
	Timezone       string `json:"timezone" db:"timezone"`
}

// Location resolves the schedule's timezone, defaulting to UTC
func (s *PractitionerSchedule) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// Validate checks the schedule is internally consistent
func (s *PractitionerSchedule) Validate() error {
	if s.PractitionerID == "" {
		return fmt.Errorf("practitioner id is required")
	}
	if s.SlotMinutes <= 0 {
		return fmt.Errorf("slot duration must be positive")
	}
	if s.OpenMinute < 0 || s.CloseMinute > 24*60 || s.OpenMinute >= s.CloseMinute {
		return fmt.Errorf("operating hours %d-%d are invalid", s.OpenMinute, s.CloseMinute)
	}
	return nil
}
