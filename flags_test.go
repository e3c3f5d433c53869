package blit

import (
	"slices"
	"testing"
)

func TestBitmapFlagsString(t *testing.T) {
	tests := []struct {
		flags BitmapFlags
		want  string
	}{
		{0, "0"},
		{MemoryBitmap, "MemoryBitmap"},
		{SyncMemoryCopy | MagLinear, "SyncMemoryCopy|MagLinear"},
		{MinLinear | MagLinear, "MinLinear|MagLinear"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.flags.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseBitmapFlags(t *testing.T) {
	tests := []struct {
		in          string
		want        BitmapFlags
		wantUnknown []string
	}{
		{"", 0, nil},
		{"memorybitmap", MemoryBitmap, nil},
		{"MinLinear|MagLinear", MinLinear | MagLinear, nil},
		{"SyncMemoryCopy, bogus", SyncMemoryCopy, []string{"bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, unknown := ParseBitmapFlags(tt.in)
			if got != tt.want {
				t.Errorf("ParseBitmapFlags(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if !slices.Equal(unknown, tt.wantUnknown) {
				t.Errorf("unknown = %v, want %v", unknown, tt.wantUnknown)
			}
		})
	}
}

func TestLockModeCovers(t *testing.T) {
	tests := []struct {
		held, want LockMode
		ok         bool
	}{
		{LockReadWrite, LockReadOnly, true},
		{LockReadWrite, LockWriteOnly, true},
		{LockReadOnly, LockReadOnly, true},
		{LockReadOnly, LockReadWrite, false},
		{LockReadOnly, LockWriteOnly, false},
		{LockWriteOnly, LockReadOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.held.String()+"/"+tt.want.String(), func(t *testing.T) {
			if got := tt.held.covers(tt.want); got != tt.ok {
				t.Errorf("covers() = %v, want %v", got, tt.ok)
			}
		})
	}
}
