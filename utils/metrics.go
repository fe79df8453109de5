package utils

import (
	"os"

	"github.com/DataDog/datadog-go/statsd"
	Logger "github.com/automuse/studio/utils/log"
)

var metricsClient *statsd.Client

// InitMetrics connects the statsd client to the local Datadog agent. Safe to
// skip in development, Incr degrades to a no-op when the client is absent.
func InitMetrics() {
	addr := os.Getenv("STATSD_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8125"
	}
	client, err := statsd.New(addr, statsd.WithNamespace("studio."))
	if err != nil {
		Logger.Log.Warn("statsd client unavailable: ", err)
		return
	}
	metricsClient = client
}

// Incr bumps a counter by one. No-op when metrics are not initialized.
func Incr(name string, tags []string) {
	if metricsClient == nil {
		return
	}
	metricsClient.Incr(name, tags, 1)
}

// CloseMetrics flushes and closes the statsd client. OK to call multiple
// times.
func CloseMetrics() {
	if metricsClient == nil {
		return
	}
	metricsClient.Close()
	metricsClient = nil
}
