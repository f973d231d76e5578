// Package stats collects server metrics.
//
// Process wide counters, the command duration histogram and the per database key
// gauges live in a VictoriaMetrics set and are exported in Prometheus text format.
// Per session command timers use a go-metrics registry and are only reported in
// the log line written when a session ends.
package stats
