package hub

import "crms/backend/internal/models"

// Client is one live timeline subscription. It abstracts the
// underlying connection so the hub can manage transports uniformly.
type Client interface {
	// GetUserID returns the identity key of the subscriber.
	GetUserID() string
	// GetComplaintID returns the complaint whose timeline the client
	// is subscribed to.
	GetComplaintID() string

	// GetSendChannel returns the channel the hub delivers events on.
	GetSendChannel() chan<- models.TimelineEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and channels.
	Close()
}
