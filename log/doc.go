// Package log defines the structured logging facade used across the
// engine. Implementations live elsewhere (see zaplog for the zap-backed
// logger); core packages depend only on this interface.
package log
