package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/framegraph/pkg/observability"
)

// observed reports cache traffic to the registered observability hooks.
type observed struct {
	Cache
}

// Observed wraps c so that every Get reports a hit or miss and every
// successful Set reports a write to observability.Cache().
func Observed(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	return observed{c}
}

// keyType extracts the key kind ("result", "artifact") for metric labels.
func keyType(key string) string {
	for _, kind := range []string{"result", "artifact"} {
		if strings.Contains(key, kind+":") {
			return kind
		}
	}
	return "other"
}

func (o observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err != nil {
		return data, hit, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, hit, nil
}

func (o observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}
