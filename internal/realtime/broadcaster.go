package realtime

import (
	"encoding/json"
	"log/slog"

	"livepoll/internal/domain/results"
	"livepoll/internal/metrics"
)

// Broadcaster fans a snapshot out to every registered connection. A
// snapshot still queued on a connection for the same poll is replaced, not
// appended. A connection with too many distinct polls waiting is failed and
// removed in the same call; nobody else waits for it.
type Broadcaster struct {
	registry *Registry
	logger   *slog.Logger
}

func NewBroadcaster(registry *Registry, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{registry: registry, logger: logger}
}

func (b *Broadcaster) Publish(pollID int64, snap results.Snapshot) {
	snap.PollID = pollID
	payload, err := json.Marshal(Event{Type: EventPollUpdated, Data: snap})
	if err != nil {
		b.logger.Error("encode snapshot", "poll_id", pollID, "error", err)
		return
	}

	conns := b.registry.Snapshot()
	var queued, coalesced, dropped int
	for _, c := range conns {
		replaced, err := c.Enqueue(pollID, payload)
		if err != nil {
			dropped++
			metrics.IncDelivery("dropped")
			b.logger.Warn("dropping slow subscriber",
				"conn_id", c.ID(),
				"poll_id", pollID,
				"error", err,
			)
			c.fail(err)
			continue
		}
		if replaced {
			coalesced++
			metrics.IncDelivery("coalesced")
			continue
		}
		queued++
		metrics.IncDelivery("queued")
	}

	metrics.IncBroadcast()
	b.logger.Debug("snapshot published",
		"poll_id", pollID,
		"total_votes", snap.TotalVotes,
		"queued", queued,
		"coalesced", coalesced,
		"dropped", dropped,
	)
}
