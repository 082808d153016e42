package services

import (
	"context"
	"time"

	"github.com/globetrek/booking-backend/logger"
	"github.com/globetrek/booking-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DBPinger is the minimal database surface the health check needs.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports liveness of the service and its dependencies.
type HealthService struct {
	db      DBPinger
	redis   *redis.Client
	version string
	log     *zap.SugaredLogger
}

// NewHealthService creates a new health service.
func NewHealthService(db DBPinger, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		db:      db,
		redis:   redisClient,
		version: version,
		log:     logger.GetLogger(),
	}
}

// CheckHealth pings each dependency and aggregates an overall status. A redis
// outage only degrades the service since rate limiting fails open.
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
	if redisStatus.Status == types.HealthStatusDown && overallStatus != types.HealthStatusDown {
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
	if err := h.db.Ping(ctx); err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.log.Warnw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
