package context

import (
	"repogenome/internal/genome"
	"repogenome/internal/storage"
)

// Feedback wraps storage.FeedbackStore, updating counters whenever a later
// query references one of a context's selected node ids (spec §4.9
// "Feedback": hit/miss counters wired by the serving layer).
type Feedback struct {
	store *storage.FeedbackStore
}

// NewFeedback returns a Feedback backed by store.
func NewFeedback(store *storage.FeedbackStore) *Feedback {
	return &Feedback{store: store}
}

// Observe records whether a subsequently queried id was part of the
// context's selection, incrementing hits or misses accordingly.
func (f *Feedback) Observe(contextID string, selected []genome.NodeId, queried genome.NodeId) error {
	for _, id := range selected {
		if id == queried {
			return f.store.RecordHit(contextID)
		}
	}
	return f.store.RecordMiss(contextID)
}

// Get returns the current hit/miss counters for contextID.
func (f *Feedback) Get(contextID string) (storage.Counters, error) {
	return f.store.Get(contextID)
}
