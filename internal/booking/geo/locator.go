package geo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const workerGeoKey = "workers:locations"

// WorkerLocator keeps workers' last known positions in a Redis GEO set.
type WorkerLocator struct {
	rdb *redis.Client
}

// NewWorkerLocator creates a new locator.
func NewWorkerLocator(rdb *redis.Client) *WorkerLocator {
	return &WorkerLocator{rdb: rdb}
}

func memberName(workerID int64) string {
	return fmt.Sprintf("worker:%d", workerID)
}

// Update stores the worker's current position.
func (l *WorkerLocator) Update(ctx context.Context, workerID int64, p Point) error {
	if !p.Valid() {
		return fmt.Errorf("invalid coordinates for worker %d", workerID)
	}
	return l.rdb.GeoAdd(ctx, workerGeoKey, &redis.GeoLocation{
		Name:      memberName(workerID),
		Longitude: p.Lon,
		Latitude:  p.Lat,
	}).Err()
}

// Locate returns the worker's last known position. The second return value is
// false when the worker has never reported a position.
func (l *WorkerLocator) Locate(ctx context.Context, workerID int64) (Point, bool, error) {
	pos, err := l.rdb.GeoPos(ctx, workerGeoKey, memberName(workerID)).Result()
	if err != nil {
		return Point{}, false, err
	}
	if len(pos) == 0 || pos[0] == nil {
		return Point{}, false, nil
	}
	return Point{Lat: pos[0].Latitude, Lon: pos[0].Longitude}, true, nil
}
