package blit

import "strings"

// BitmapFlags select how new bitmaps are stored and sampled.
type BitmapFlags uint32

const (
	// MemoryBitmap forces bitmaps into system memory, never display storage.
	MemoryBitmap BitmapFlags = 1 << iota

	// SyncMemoryCopy keeps display bitmaps authoritative in their memory
	// mirror; every unlock uploads the changed rectangle.
	SyncMemoryCopy

	// NoPreserveTexture is accepted for compatibility and has no effect.
	NoPreserveTexture

	// MinLinear requests linear filtering when a bitmap is minified.
	MinLinear

	// MagLinear requests linear filtering when a bitmap is magnified.
	MagLinear
)

var flagNames = []struct {
	flag BitmapFlags
	name string
}{
	{MemoryBitmap, "MemoryBitmap"},
	{SyncMemoryCopy, "SyncMemoryCopy"},
	{NoPreserveTexture, "NoPreserveTexture"},
	{MinLinear, "MinLinear"},
	{MagLinear, "MagLinear"},
}

// Has reports whether all bits of f2 are set in f.
func (f BitmapFlags) Has(f2 BitmapFlags) bool {
	return f&f2 == f2
}

// String returns the set flag names joined by '|'.
func (f BitmapFlags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseBitmapFlags parses a '|' or ',' separated list of flag names.
// Unknown names are ignored and reported in the second result.
func ParseBitmapFlags(s string) (BitmapFlags, []string) {
	var flags BitmapFlags
	var unknown []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.TrimSpace(part)
		found := false
		for _, fn := range flagNames {
			if strings.EqualFold(fn.name, part) {
				flags |= fn.flag
				found = true
				break
			}
		}
		if !found && part != "" {
			unknown = append(unknown, part)
		}
	}
	return flags, unknown
}

// Backing identifies where a bitmap's pixels live.
type Backing uint8

const (
	// BackingMemory bitmaps live only in system memory.
	BackingMemory Backing = iota

	// BackingDisplay bitmaps live in display storage. Their memory mirror
	// is only a cache; pixel access goes through the driver.
	BackingDisplay

	// BackingDisplaySynced bitmaps live in display storage with an
	// authoritative memory mirror.
	BackingDisplaySynced
)

// String returns a string representation of the backing.
func (b Backing) String() string {
	switch b {
	case BackingMemory:
		return "Memory"
	case BackingDisplay:
		return "Display"
	case BackingDisplaySynced:
		return "DisplaySynced"
	default:
		return "Unknown"
	}
}

// LockMode declares the intended access through a lock.
type LockMode uint8

const (
	// LockReadWrite allows reading and writing.
	LockReadWrite LockMode = iota

	// LockReadOnly promises no writes; unlock skips the upload.
	LockReadOnly

	// LockWriteOnly promises no reads; lock skips filling staging buffers.
	LockWriteOnly
)

// String returns a string representation of the lock mode.
func (m LockMode) String() string {
	switch m {
	case LockReadWrite:
		return "ReadWrite"
	case LockReadOnly:
		return "ReadOnly"
	case LockWriteOnly:
		return "WriteOnly"
	default:
		return "Unknown"
	}
}

// canRead reports whether the mode permits reading.
func (m LockMode) canRead() bool { return m != LockWriteOnly }

// canWrite reports whether the mode permits writing.
func (m LockMode) canWrite() bool { return m != LockReadOnly }

// covers reports whether a lock held with mode m satisfies a request
// for mode other.
func (m LockMode) covers(other LockMode) bool {
	return m == LockReadWrite || m == other
}

// DrawFlags select mirroring for draw operations.
type DrawFlags uint32

const (
	// FlipHorizontal mirrors the source region left to right.
	FlipHorizontal DrawFlags = 1 << iota

	// FlipVertical mirrors the source region top to bottom.
	FlipVertical
)
