// Package build holds build-time metadata.
package build

var (
	// AppName is the canonical application name.
	AppName = "snsbot"

	// Version is set at build time via -ldflags.
	Version = "0.0.0"
)
