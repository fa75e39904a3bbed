// Package metrics exposes the Prometheus scrape endpoint. Per-context
// metrics register themselves against the default registry via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the /metrics scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
