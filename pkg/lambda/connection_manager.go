package lambda

import (
	"context"
	"sync"
	"time"

	"github.com/youlserf/recipehub/internal/config"
	"github.com/youlserf/recipehub/pkg/server"
)

// ConnectionManager keeps the service container alive across warm invocations
// so the store client is built once per cold start.
type ConnectionManager struct {
	container *server.Container
	lastUsed  time.Time
	mu        sync.RWMutex

	// loadConfig and newContainer are swapped out in tests
	loadConfig   func() (*config.Config, error)
	newContainer func(*config.Config) (*server.Container, error)
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager(config.GetOptimizedConfig, server.NewContainer)
	})
	return globalConnectionManager
}

// NewConnectionManager creates a connection manager using the given constructors
func NewConnectionManager(
	loadConfig func() (*config.Config, error),
	newContainer func(*config.Config) (*server.Container, error),
) *ConnectionManager {
	return &ConnectionManager{
		loadConfig:   loadConfig,
		newContainer: newContainer,
	}
}

// GetContainer returns the service container, initializing it on first use.
// A failed initialization is retried on the next call.
func (cm *ConnectionManager) GetContainer() (*server.Container, error) {
	cm.mu.RLock()
	if cm.container != nil {
		container := cm.container
		cm.mu.RUnlock()
		cm.UpdateLastUsed()
		return container, nil
	}
	cm.mu.RUnlock()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		cm.lastUsed = time.Now()
		return cm.container, nil
	}

	cfg, err := cm.loadConfig()
	if err != nil {
		return nil, err
	}

	container, err := cm.newContainer(cfg)
	if err != nil {
		return nil, err
	}

	cm.container = container
	cm.lastUsed = time.Now()
	return container, nil
}

// Acquire returns the service container for an invocation. A container that
// sat idle past the staleness window is health-checked first and rebuilt when
// its store no longer answers.
func (cm *ConnectionManager) Acquire(ctx context.Context) (*server.Container, error) {
	cm.mu.RLock()
	container := cm.container
	cm.mu.RUnlock()

	if container != nil && !cm.IsHealthy() {
		if status := container.RecipeService.Health(ctx); !status.Healthy {
			container.Logger.WithField("reason", status.Message).Warn("Stale container failed health check, rebuilding")
			if err := cm.Cleanup(); err != nil {
				container.Logger.WithError(err).Warn("Failed to close stale container")
			}
		}
	}

	return cm.GetContainer()
}

// IsHealthy reports whether a container is initialized and was used recently
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.container == nil {
		return false
	}

	// Check if connection is stale (older than 5 minutes)
	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Cleanup closes the container; the next GetContainer builds a new one
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	return nil
}

// UpdateLastUsed updates the last used timestamp
func (cm *ConnectionManager) UpdateLastUsed() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.lastUsed = time.Now()
}
