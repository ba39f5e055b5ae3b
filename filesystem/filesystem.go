// Package filesystem routes every disk access through a swappable afero backend so tests can run on a memory map.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// WriteAtomic writes data to a sibling temp file and renames it over path.
func WriteAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := backend.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := backend.Rename(tmp, path); err != nil {
		_ = backend.Remove(tmp)
		return err
	}
	return nil
}
