// Package metrics counts configuration store activity with Prometheus.
//
// A Collector is passed to config.New through config.WithRecorder. It owns
// a private registry so several collectors (one per test, for instance)
// never clash over the default registry. Exposing the registry over HTTP
// is left to whatever serves the application.
package metrics
