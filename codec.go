package blit

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// MaxExtensionLen is the longest extension, leading '.' included, that can
// be registered.
const MaxExtensionLen = 31

// LoaderFunc decodes the file at path into a bitmap created through dc.
type LoaderFunc func(dc *Context, path string) (*Bitmap, error)

// SaverFunc encodes bmp into the file at path.
type SaverFunc func(dc *Context, path string, bmp *Bitmap) error

// StreamLoaderFunc decodes a bitmap from r.
type StreamLoaderFunc func(dc *Context, r io.Reader) (*Bitmap, error)

// StreamSaverFunc encodes bmp into w.
type StreamSaverFunc func(dc *Context, w io.Writer, bmp *Bitmap) error

// CodecEntry holds the codec capabilities registered for one extension.
// Any of the functions may be nil.
type CodecEntry struct {
	Extension    string
	Loader       LoaderFunc
	Saver        SaverFunc
	StreamLoader StreamLoaderFunc
	StreamSaver  StreamSaverFunc
}

func (e *CodecEntry) empty() bool {
	return e.Loader == nil && e.Saver == nil && e.StreamLoader == nil && e.StreamSaver == nil
}

// CodecRegistry maps file extensions to codecs. Extensions are matched
// case-insensitively, with or without the leading '.'.
//
// CodecRegistry is safe for concurrent use.
type CodecRegistry struct {
	mu      sync.RWMutex
	entries map[string]*CodecEntry
}

// NewCodecRegistry creates an empty registry.
func NewCodecRegistry() *CodecRegistry {
	return &CodecRegistry{entries: make(map[string]*CodecEntry)}
}

var defaultCodecs = NewCodecRegistry()

// DefaultCodecs returns the process-wide registry used by contexts created
// without WithCodecs. Package imageio installs the built-in codecs into it.
func DefaultCodecs() *CodecRegistry { return defaultCodecs }

// normalizeExtension returns ext case-folded with a leading '.'.
func normalizeExtension(ext string) (string, error) {
	ext = strings.TrimSpace(ext)
	if ext == "" || ext == "." {
		return "", ErrNoExtension
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	// A Caser keeps state, so one is created per call.
	ext = cases.Fold().String(ext)
	if len(ext) > MaxExtensionLen {
		return "", fmt.Errorf("%w: %q", ErrExtensionTooLong, ext)
	}
	return ext, nil
}

// RegisterLoader sets the file loader for ext. A nil fn removes the loader
// and fails with ErrNothingToRemove when none was registered.
func (r *CodecRegistry) RegisterLoader(ext string, fn LoaderFunc) error {
	return r.update(ext, fn == nil, func(e *CodecEntry) bool {
		had := e.Loader != nil
		e.Loader = fn
		return had
	})
}

// RegisterSaver sets the file saver for ext. A nil fn removes the saver
// and fails with ErrNothingToRemove when none was registered.
func (r *CodecRegistry) RegisterSaver(ext string, fn SaverFunc) error {
	return r.update(ext, fn == nil, func(e *CodecEntry) bool {
		had := e.Saver != nil
		e.Saver = fn
		return had
	})
}

// RegisterStreamLoader sets the stream loader for ext. A nil fn removes the
// stream loader and fails with ErrNothingToRemove when none was registered.
func (r *CodecRegistry) RegisterStreamLoader(ext string, fn StreamLoaderFunc) error {
	return r.update(ext, fn == nil, func(e *CodecEntry) bool {
		had := e.StreamLoader != nil
		e.StreamLoader = fn
		return had
	})
}

// RegisterStreamSaver sets the stream saver for ext. A nil fn removes the
// stream saver and fails with ErrNothingToRemove when none was registered.
func (r *CodecRegistry) RegisterStreamSaver(ext string, fn StreamSaverFunc) error {
	return r.update(ext, fn == nil, func(e *CodecEntry) bool {
		had := e.StreamSaver != nil
		e.StreamSaver = fn
		return had
	})
}

// update applies set to the entry for ext, creating it when adding.
// set reports whether the slot held a function before. Entries left
// without any capability are dropped.
func (r *CodecRegistry) update(ext string, removing bool, set func(*CodecEntry) bool) error {
	key, err := normalizeExtension(ext)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		if removing {
			return fmt.Errorf("%w: %s", ErrNothingToRemove, key)
		}
		e = &CodecEntry{Extension: key}
		r.entries[key] = e
	}
	had := set(e)
	if removing && !had {
		return fmt.Errorf("%w: %s", ErrNothingToRemove, key)
	}
	if e.empty() {
		delete(r.entries, key)
	}
	return nil
}

// Find returns a copy of the entry registered for ext.
func (r *CodecRegistry) Find(ext string) (CodecEntry, bool) {
	key, err := normalizeExtension(ext)
	if err != nil {
		return CodecEntry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return CodecEntry{}, false
	}
	return *e, true
}

// Extensions returns the registered extensions in sorted order.
func (r *CodecRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.entries))
	for ext := range r.entries {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
