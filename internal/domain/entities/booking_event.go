package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// BookingEventType represents the type of booking event
type BookingEventType string

const (
	BookingEventTypeBooked    BookingEventType = "booked"
	BookingEventTypeCancelled BookingEventType = "cancelled"
)

// BookingEvent is a real-time update published when a slot is committed or
// released, so open calendar views can refresh without polling
type BookingEvent struct {
	ID             string           `json:"id"`
	PractitionerID string           `json:"practitioner_id"`
	EventType      BookingEventType `json:"event_type"`
	SlotKey        string           `json:"slot_key"`
	Timestamp      time.Time        `json:"timestamp"`
}

// NewBookingEvent creates a new booking event for a slot
func NewBookingEvent(eventType BookingEventType, slot SlotID) *BookingEvent {
	return &BookingEvent{
		ID:             generateEventID(),
		PractitionerID: slot.PractitionerID,
		EventType:      eventType,
		SlotKey:        slot.Key(),
		Timestamp:      time.Now(),
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
