package blit

import "errors"

// Contract violations.
var (
	// ErrAlreadyLocked is returned when locking a bitmap that holds a lock.
	ErrAlreadyLocked = errors.New("blit: bitmap already locked")

	// ErrNotLocked is returned when unlocking a bitmap that holds no lock.
	ErrNotLocked = errors.New("blit: bitmap not locked")

	// ErrInvalidRegion is returned when a lock rectangle is empty or falls
	// outside the bitmap.
	ErrInvalidRegion = errors.New("blit: invalid lock region")

	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("blit: invalid dimensions")

	// ErrDestroyed is returned by every operation on a destroyed bitmap.
	ErrDestroyed = errors.New("blit: bitmap destroyed")

	// ErrNoTarget is returned when drawing without a target bitmap.
	ErrNoTarget = errors.New("blit: no target bitmap")

	// ErrSelfDraw is returned when a bitmap is drawn onto itself.
	ErrSelfDraw = errors.New("blit: source and target are the same bitmap")

	// ErrLocked is returned when a draw needs a bitmap that is locked
	// in a way the draw cannot reuse.
	ErrLocked = errors.New("blit: bitmap is locked")

	// ErrRegionInvalid is returned when a locked region is used after
	// its bitmap was unlocked or destroyed.
	ErrRegionInvalid = errors.New("blit: locked region no longer valid")

	// ErrNilBitmap is returned when a required bitmap argument is nil.
	ErrNilBitmap = errors.New("blit: nil bitmap")
)

// Resource errors.
var (
	// ErrTextureAlloc wraps driver failures to create display storage.
	ErrTextureAlloc = errors.New("blit: texture allocation failed")

	// ErrNoDriver is returned when a display is created without a driver.
	ErrNoDriver = errors.New("blit: no display driver")
)

// Codec registry errors.
var (
	// ErrNoExtension is returned when a filename has no extension.
	ErrNoExtension = errors.New("blit: filename has no extension")

	// ErrNoHandler is returned when no codec handles an extension.
	ErrNoHandler = errors.New("blit: no handler for extension")

	// ErrExtensionTooLong is returned when a normalized extension exceeds
	// MaxExtensionLen.
	ErrExtensionTooLong = errors.New("blit: extension too long")

	// ErrNothingToRemove is returned when unregistering a codec capability
	// that was never registered.
	ErrNothingToRemove = errors.New("blit: no such codec capability")

	// ErrCodec wraps failures reported by codec implementations.
	ErrCodec = errors.New("blit: codec failure")
)
