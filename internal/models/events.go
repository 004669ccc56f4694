package models

// ChangeKind tags a feed change event.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// FeedChangeEvent is the single change notification delivered to feed
// observers. It replaces the layered added/updated/removed listener
// interfaces of earlier designs with one tagged variant dispatched by Kind.
type FeedChangeEvent struct {
	Kind    ChangeKind    `json:"kind"`
	Records []*MoodRecord `json:"records"`
}
