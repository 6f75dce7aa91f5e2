// Package filesystem holds the swappable afero backend every persistent component reads and writes through.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend. Tests call it from init().
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
