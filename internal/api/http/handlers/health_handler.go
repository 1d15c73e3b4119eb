package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is an optional backing store checked by readiness.
type Pinger interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// ReadinessChecker reports whether the service can answer predictions.
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName  string
	version      string
	artifacts    ReadinessChecker
	dependencies map[string]Pinger
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, artifacts ReadinessChecker, dependencies map[string]Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, artifacts: artifacts, dependencies: dependencies}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness. Only the artifacts gate readiness; store status is informational.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	for name, dep := range h.dependencies {
		if dep == nil || !dep.Enabled() {
			depStatus[name] = "disabled"
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			depStatus[name] = err.Error()
		} else {
			depStatus[name] = "ok"
		}
	}

	if h.artifacts != nil && h.artifacts.Ready() {
		depStatus["artifacts"] = "ok"
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	depStatus["artifacts"] = "not loaded"
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error":        "model artifacts not loaded",
		"dependencies": depStatus,
	})
}
