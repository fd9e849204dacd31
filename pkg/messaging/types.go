package messaging

type ChangeTopic string

const (
	// Tracking carries session, search and action events.
	Tracking ChangeTopic = "tracking"
	// IndexChanged is published by the indexer after documents changed.
	IndexChanged ChangeTopic = "index_changed"
)
