package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats is the JSON view of pgxpool statistics.
type PoolStats struct {
	TotalConns    int32  `json:"total_conns"`
	IdleConns     int32  `json:"idle_conns"`
	AcquiredConns int32  `json:"acquired_conns"`
	MaxConns      int32  `json:"max_conns"`
	AcquireCount  int64  `json:"acquire_count"`
	AcquireWait   string `json:"acquire_wait"`
}

// HealthReport is the body of GET /health/db.
type HealthReport struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	// SharedSchemaVersion is the newest migration applied to the shared
	// schema; absent when it cannot be read.
	SharedSchemaVersion *int       `json:"shared_schema_version,omitempty"`
	Pool                *PoolStats `json:"pool,omitempty"`
}

// GetPoolStats snapshots the pool counters.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
		MaxConns:      stat.MaxConns(),
		AcquireCount:  stat.AcquireCount(),
		AcquireWait:   stat.AcquireDuration().String(),
	}
}

// newHealthReport decides the status code. A failed ping is a 503 even when
// a schema version was read earlier.
func newHealthReport(stats *PoolStats, version *int, pingErr error) (int, HealthReport) {
	r := HealthReport{Status: "healthy", SharedSchemaVersion: version, Pool: stats}
	if pingErr != nil {
		r.Status = "unhealthy"
		r.Error = pingErr.Error()
		return http.StatusServiceUnavailable, r
	}
	return http.StatusOK, r
}

// HealthHandler serves GET /health/db: a ping and the shared schema version,
// bounded to five seconds together, plus pool statistics.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		pingErr := pool.Ping(ctx)
		var version *int
		if pingErr == nil {
			var v int
			if err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM shared._migrations`).Scan(&v); err == nil {
				version = &v
			}
		}

		status, report := newHealthReport(GetPoolStats(pool), version, pingErr)
		return c.JSON(status, report)
	}
}
