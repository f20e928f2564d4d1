package providers

import (
	"context"

	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to booking
// events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.BookingEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.BookingEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelBookingUpdates is the channel for all booking updates
	EventChannelBookingUpdates = "booking:updates"

	// EventChannelPractitionerPrefix is the prefix for practitioner-specific channels
	EventChannelPractitionerPrefix = "practitioner:"
)

// GetPractitionerChannel returns the channel name for a specific practitioner
func GetPractitionerChannel(practitionerID string) string {
	return EventChannelPractitionerPrefix + practitionerID
}
