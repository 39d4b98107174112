// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// Every persisted artifact (configuration, request caches, logs) goes through the afero
// backend returned by API, so tests can swap it for an in-memory one.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// IsOs reports whether the active backend touches the real operating system filesystem.
// Cross-process file locks are only meaningful in that case.
func IsOs() bool {
	_, ok := backend.Fs.(*afero.OsFs)
	return ok
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs initializes a volatile in-memory filesystem backend for unit testing.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// SetFs installs an arbitrary backend, e.g. a read-only view in tests.
func SetFs(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}
