package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xpress-inn/feedback-api/logger"
	"github.com/xpress-inn/feedback-api/types"
)

// dbPinger is satisfied by pgxpool.Pool.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// redisPinger is satisfied by redis.Client.
type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthService reports the health of the service's dependencies.
type HealthService struct {
	db      dbPinger
	redis   redisPinger
	version string
	log     *zap.SugaredLogger
}

func NewHealthService(db dbPinger, redisClient redisPinger, version string) *HealthService {
	return &HealthService{
		db:      db,
		redis:   redisClient,
		version: version,
		log:     logger.GetLogger(),
	}
}

// CheckHealth pings every dependency and rolls the results up into one
// status.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	dbStatus := h.checkDatabase(ctx)
	components["database"] = dbStatus
	if dbStatus.Status == types.HealthStatusDown {
		overallStatus = types.HealthStatusDown
	}

	redisStatus := h.checkRedis(ctx)
	components["redis"] = redisStatus
	// Redis only backs rate limiting, so an outage degrades rather than
	// downs the service.
	if redisStatus.Status == types.HealthStatusDown && overallStatus == types.HealthStatusUp {
		overallStatus = types.HealthStatusDegraded
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.redis.Ping(pingCtx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
