package pipeline

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"github.com/librarylab/lending-go/shell"
	"github.com/librarylab/lending-go/shell/memcache"
)

const cacheKeySeparator = ":"

var cacheKeyJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// cachingStage serves responses for cacheable requests from the shared
// cache, calling downstream only on a miss and storing the fresh result.
type cachingStage[Req shell.Request, Res any] struct {
	next  shell.Handler[Req, Res]
	cache *memcache.Cache
}

// Caching creates the caching pipeline stage backed by the given cache.
// It only applies to requests implementing the shell.Cacheable marker;
// everything else always calls downstream directly. On a key hit the
// cached response is returned without calling downstream; on a miss the
// downstream result is stored under the key before being returned.
// Failures are never cached.
func Caching[Req shell.Request, Res any](cache *memcache.Cache) Middleware[Req, Res] {
	return func(next shell.Handler[Req, Res]) shell.Handler[Req, Res] {
		if cache == nil {
			return next
		}

		return cachingStage[Req, Res]{
			next:  next,
			cache: cache,
		}
	}
}

// Handle serves the request from the cache when possible.
func (s cachingStage[Req, Res]) Handle(ctx context.Context, request Req) (Res, error) {
	cacheable, isCacheable := any(request).(shell.Cacheable)
	if !isCacheable || !cacheable.CacheableRequest() {
		return s.next.Handle(ctx, request)
	}

	key, keyOK := BuildCacheKey(request)
	if !keyOK {
		return s.next.Handle(ctx, request)
	}

	if cached, hit := s.cache.Get(key); hit {
		if response, ok := cached.(Res); ok {
			return response, nil
		}
	}

	response, err := s.next.Handle(ctx, request)
	if err != nil {
		return response, err
	}

	s.cache.Set(key, response)

	return response, nil
}

// BuildCacheKey derives the cache key for a request as
// "{request-type-name}:{canonical-serialization-of-request-fields}".
// Two requests with identical type and field values produce the same
// key; struct field order makes the serialization deterministic.
// The second return value is false when the request cannot be
// serialized, in which case the caller bypasses the cache.
func BuildCacheKey(request shell.Request) (string, bool) {
	serialized, err := cacheKeyJSON.Marshal(request)
	if err != nil {
		return "", false
	}

	return request.RequestType() + cacheKeySeparator + string(serialized), true
}
