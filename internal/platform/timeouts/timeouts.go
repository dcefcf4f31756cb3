// Package timeouts collects the time limits of the admin processes.
package timeouts

import "time"

const (
	// ReadHeader bounds how long the HTTP server waits for request headers.
	ReadHeader = 5 * time.Second
	// Shutdown bounds graceful HTTP shutdown.
	Shutdown = 5 * time.Second
	// TraceFlush bounds the final span export on exit.
	TraceFlush = 5 * time.Second
	// StoreRequest caps the storage time of one admin page.
	StoreRequest = 5 * time.Second
	// FlashTTL is how long an undelivered flash message is kept.
	FlashTTL = 10 * time.Minute
)
