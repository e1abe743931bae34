package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ServiceName is reported by the banner and health endpoints
const ServiceName = "gin-employee-api"

// Pinger checks that the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports liveness and store connectivity
type HealthController struct {
	store   Pinger
	timeout time.Duration
	log     *logrus.Logger
}

// NewHealthController creates a new instance of HealthController
func NewHealthController(store Pinger, log *logrus.Logger) *HealthController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HealthController{store: store, timeout: 2 * time.Second, log: log}
}

// Root godoc
// @Summary Service banner
// @Description Confirms the server is up and points at the GraphQL endpoint
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (hc *HealthController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Server is running",
		"service": ServiceName,
		"graphql": "/graphql",
	})
}

// Health godoc
// @Summary Health check
// @Description Check if the service is running and the store is reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), hc.timeout)
	defer cancel()

	timestamp := time.Now().UTC().Format(time.RFC3339)
	if err := hc.store.Ping(ctx); err != nil {
		hc.log.WithError(err).Error("Health check failed: store unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": timestamp,
			"service":   ServiceName,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": timestamp,
		"service":   ServiceName,
	})
}
