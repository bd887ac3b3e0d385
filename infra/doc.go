// Package infra holds the technical adapters around the simulation core:
// the zerolog logger, metrics sinks, the MQTT publisher and the SQLite run
// store. These packages depend only on interfaces defined under core.
package infra
