package cache

import (
	"fmt"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/config"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

// New builds the configured Store backend, per GENERIC_CACHE_STORE_TYPE.
func New(cfg config.CacheStoreConfig, logger log.Logger) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemory(logger), nil
	case "redis":
		return NewRedis(cfg.URL, logger)
	default:
		return nil, fmt.Errorf("cache: unknown store type %q", cfg.Type)
	}
}
