package health

import (
	"context"

	"codeberg.org/lumina/server/internal/queue"
)

// RootResponse is the liveness body served at GET /.
type RootResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// Response reports readiness of the pieces behind the service.
type Response struct {
	Service  string      `json:"service"`
	Status   string      `json:"status"`
	Store    string      `json:"store"`
	Consumer queue.Stats `json:"consumer"`
}

type ConsumerStatus interface {
	Stats() queue.Stats
}

type Pinger interface {
	Ping(ctx context.Context) error
}
