// Package constant defines immutable application-level identifiers.
package constant

const (
	// App is the canonical application identifier used for filesystem paths, env prefixes and CLI branding.
	App = "tubecycle"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// Repository is the upstream GitHub slug used for release checks.
	Repository = "tubecycle/tubecycle"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
