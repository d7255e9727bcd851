// Package metrics provides engine.Observer implementations.
//
// Counters keeps in-process statistics: how often every combination won and
// how many combinations the search tried per call. OTelRecorder exports the
// same signals as OpenTelemetry instruments.
package metrics
