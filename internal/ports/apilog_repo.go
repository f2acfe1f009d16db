package ports

import (
	"context"
	"time"
)

// UsageRecord — запись об обращении к платному эндпоинту.
type UsageRecord struct {
	ID        int64
	Endpoint  string
	Result    string // "ok" | "error"
	Cost      int
	CreatedAt time.Time
}

type UsageRepo interface {
	Create(ctx context.Context, endpoint, result string, cost int) (int64, error)
}
