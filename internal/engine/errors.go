package engine

import "errors"

// Error kinds shared by the scene packages. Callers wrap these with context and
// test for them with errors.Is.
var (
	// ErrDuplicateIdentity is returned when a record with the same ID is already registered.
	ErrDuplicateIdentity = errors.New("duplicate identity")
	// ErrNotFound is returned when removing an ID the registry doesn't hold.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration marks invalid animation or session settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrAssetLoad marks a rejected or timed out asset load.
	ErrAssetLoad = errors.New("asset load failure")
	// ErrClockAnomaly is reported when the clock steps backwards between ticks.
	ErrClockAnomaly = errors.New("clock anomaly")
)
