package realtime

import "livepoll/internal/domain/results"

const EventPollUpdated = "pollUpdated"

// Event is the only message pushed to subscribers.
type Event struct {
	Type string           `json:"type"`
	Data results.Snapshot `json:"data"`
}
