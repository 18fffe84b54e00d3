package config

import "errors"

var (
	// ErrUnknownFormat is returned for file extensions no loader handles.
	ErrUnknownFormat = errors.New("config: unknown file format")

	// ErrInvalidJSON is returned when a .json file is not valid JSON.
	ErrInvalidJSON = errors.New("config: invalid JSON")

	// ErrNegativeDebounce is returned when the debounce window is negative.
	ErrNegativeDebounce = errors.New("config: negative debounce window")

	// ErrWatcherClosed is returned by operations on a closed watcher.
	ErrWatcherClosed = errors.New("config: watcher closed")
)
