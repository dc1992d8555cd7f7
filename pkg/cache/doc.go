// Package cache provides an optional Redis-backed response cache for PokeAPI.
//
// PokeAPI resources change rarely and the public instance asks clients to
// cache locally. The manager stores whole responses keyed by endpoint and
// query, honours Cache-Control max-age / Expires, and keeps ETag and
// Last-Modified so the client can revalidate with a conditional request.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient)
//
//	key := cache.CacheKey{
//		Endpoint:    "/api/v2/pokemon",
//		QueryParams: url.Values{"offset": {"0"}, "limit": {"20"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from PokeAPI
//	}
//
// # HTTP Response Caching
//
//	entry, err := cache.ResponseToEntry(resp)
//	if err != nil {
//		return err
//	}
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// A cached entry is replayed to callers with EntryToResponse.
//
// # Metrics
//
//   - pokeapi_cache_hits_total{layer="redis"}
//   - pokeapi_cache_misses_total
//   - pokeapi_cache_size_bytes{layer="redis"}
//   - pokeapi_304_responses_total
//   - pokeapi_conditional_requests_total
//   - pokeapi_cache_errors_total{operation}
package cache
