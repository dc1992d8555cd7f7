// Package metrics exposes the Prometheus registry shared by every package.
// Metrics are declared with promauto next to the code that records them.
//
// PokeAPI client (pkg/client):
//   - pokeapi_requests_total{endpoint, status}
//   - pokeapi_request_duration_seconds{endpoint}
//   - pokeapi_errors_total{kind}
//   - pokeapi_retries_total{kind}
//   - pokeapi_retry_backoff_seconds{kind}
//   - pokeapi_retry_exhausted_total{kind}
//
// Cache (pkg/cache):
//   - pokeapi_cache_hits_total{layer}
//   - pokeapi_cache_misses_total
//   - pokeapi_cache_size_bytes{layer}
//   - pokeapi_304_responses_total
//   - pokeapi_conditional_requests_total
//   - pokeapi_cache_errors_total{operation}
//
// Rate limiting (pkg/ratelimit):
//   - pokeapi_rate_limited_responses_total
//   - pokeapi_rate_limit_cooldown_waits_total
//   - pokeapi_rate_limit_cooldown_seconds
//
// Pages and machines:
//   - pokeapi_fanout_items_total{result}
//   - pokeapi_fanout_duration_seconds
//   - pokedex_pages_total{result}
//   - pokedex_machine_events_total{machine}
//   - pokedex_machine_event_duration_seconds{machine}
//   - pokedex_machine_effects_dropped_total{machine}
//
// Useful queries:
//
//	# cache hit rate
//	sum(rate(pokeapi_cache_hits_total[5m])) /
//	(sum(rate(pokeapi_cache_hits_total[5m])) + sum(rate(pokeapi_cache_misses_total[5m])))
//
//	# p95 page latency
//	histogram_quantile(0.95, rate(pokeapi_fanout_duration_seconds_bucket[5m]))
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is where promauto registers every metric.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back what Registry holds.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}
