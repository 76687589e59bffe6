// Package zaplog provides the zap-backed implementation of the log.Logger
// facade, including environment-profiled construction and an OpenTelemetry
// log bridge.
package zaplog
