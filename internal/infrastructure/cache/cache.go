package cache

import (
	"time"
	"unsafe"

	"github.com/coocood/freecache"
	"go.uber.org/zap"
)

// Cache stores short-lived encoded responses.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Del(key string)
}

type Provider struct {
	cache *freecache.Cache
}

// New returns a freecache-backed Cache, or a no-op Cache when sizeMB <= 0.
func New(sizeMB int, log *zap.Logger) Cache {
	if sizeMB <= 0 {
		log.Info("cache disabled")
		return noopCache{}
	}
	log.Info("cache initialized", zap.Int("size_mb", sizeMB))
	return &Provider{cache: freecache.NewCache(sizeMB * 1024 * 1024)}
}

// unsafeStringToBytes converts string to []byte without allocation.
// freecache copies keys internally and never writes to them.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *Provider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores value for ttl, rounded up to whole seconds.
func (c *Provider) Set(key string, value []byte, ttl time.Duration) {
	secs := int((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	_ = c.cache.Set(unsafeStringToBytes(key), value, secs)
}

func (c *Provider) Del(key string) {
	c.cache.Del(unsafeStringToBytes(key))
}

type noopCache struct{}

func (noopCache) Get(string) ([]byte, bool)         { return nil, false }
func (noopCache) Set(string, []byte, time.Duration) {}
func (noopCache) Del(string)                        {}
