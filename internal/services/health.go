package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/config"
	"github.com/notehive/notehive/internal/database"
)

type HealthService struct {
	config *config.Config
	logger *logrus.Logger
	db     *database.Database

	healthCheckStatus *prometheus.GaugeVec
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Services    map[string]string `json:"services"`
	Critical    []string          `json:"critical_failures,omitempty"`
	NonCritical []string          `json:"non_critical_failures,omitempty"`
}

func NewHealthService(cfg *config.Config, logger *logrus.Logger, db *database.Database) *HealthService {
	hs := &HealthService{
		config: cfg,
		logger: logger,
		db:     db,
	}

	hs.healthCheckStatus = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "health_check_status",
		Help: "Health check status (1 = healthy, 0 = unhealthy)",
	}, []string{"service"})

	// Ignore duplicate registration so tests can construct the service
	// repeatedly.
	if err := prometheus.Register(hs.healthCheckStatus); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			logger.WithError(err).Warn("Failed to register health_check_status metric")
		}
	}

	return hs
}

// CheckHealth pings Postgres (critical) and Redis (non-critical: the
// memory rate-limit store and stateless auth keep the service usable
// without it, degraded).
func (hs *HealthService) CheckHealth() *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := hs.db.PG.Ping(ctx); err != nil {
		status.Services["postgresql"] = "unhealthy"
		status.Critical = append(status.Critical, "postgresql")
		hs.healthCheckStatus.WithLabelValues("postgresql").Set(0)
		hs.logger.WithError(err).Error("PostgreSQL health check failed")
	} else {
		status.Services["postgresql"] = "healthy"
		hs.healthCheckStatus.WithLabelValues("postgresql").Set(1)
	}

	if err := hs.db.Redis.Ping(ctx).Err(); err != nil {
		status.Services["redis"] = "unhealthy"
		status.NonCritical = append(status.NonCritical, "redis")
		hs.healthCheckStatus.WithLabelValues("redis").Set(0)
		hs.logger.WithError(err).Warn("Redis health check failed")
	} else {
		status.Services["redis"] = "healthy"
		hs.healthCheckStatus.WithLabelValues("redis").Set(1)
	}

	if len(status.Critical) > 0 {
		status.Status = "unhealthy"
	} else if len(status.NonCritical) > 0 {
		status.Status = "degraded"
	}

	return status
}
