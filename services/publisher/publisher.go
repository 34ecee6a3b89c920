package publisher

// Publisher feeds extracted deposit records to downstream consumers.
type Publisher interface {
	// Publish publishes one record payload keyed by its site
	Publish(site string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
