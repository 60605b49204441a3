// Package filesystem routes every disk access of imgscout (config file,
// logs, query history) through one afero backend that tests swap for memory.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API is the backend currently in use.
func API() afero.Afero {
	return backend
}

// SetOsFs switches back to the real disk.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs swaps in an empty in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
