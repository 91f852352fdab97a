// Package metrics provides observability hooks for build metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks and carries
// no overhead when disabled. The Prometheus implementation is activated by
// the preview server, which exposes the registry over HTTP.
package metrics
