// Package metrics defines the Prometheus counters exported by formrelay.
package metrics
