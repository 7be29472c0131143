package health

import "context"

// ModelChecker reports whether the matching model is loaded and servable.
type ModelChecker interface {
	Ready(ctx context.Context) error
}

// DBPinger checks history store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
