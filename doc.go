// Package blit provides bitmaps backed by system memory or by display
// storage, with locking for pixel access, a codec registry for loading and
// saving, and drawing that runs in software or on display hardware.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/blit"
//		"github.com/gogpu/blit/imageio"
//		"github.com/gogpu/blit/pixel"
//	)
//
//	imageio.Install(blit.DefaultCodecs())
//
//	dc := blit.NewContext(blit.WithNewBitmapFlags(blit.MemoryBitmap))
//	sprite, err := dc.LoadBitmap("sprite.png")
//	canvas, err := dc.CreateBitmap(320, 200)
//
//	dc.SetTarget(canvas)
//	dc.Clear(pixel.Black)
//	dc.DrawBitmap(sprite, 10, 10, 0)
//	dc.SaveBitmap("out.png", canvas)
//
// # Backing
//
// A bitmap is one of:
//   - BackingMemory: pixels in a buffer the bitmap owns
//   - BackingDisplay: pixels in display storage, reached through the
//     driver's lock
//   - BackingDisplaySynced: display storage plus an authoritative memory
//     mirror that is uploaded on every unlock (SyncMemoryCopy)
//
// The context's new-bitmap flags and current display decide the backing
// at creation. Display storage comes from a Driver; see package backend
// for driver selection and backend/headless and backend/ebiten for
// implementations.
//
// # Locking
//
// Lock and LockRegion expose pixel memory as a LockedRegion. Only one lock
// may be active per bitmap. A region becomes invalid on Unlock or Destroy,
// after which it hands out no memory.
//
// # Drawing
//
// The Draw methods of Context write to the target bitmap. When the source
// or the target is a memory bitmap the software path runs; when both live
// on compatible display storage the driver draws; otherwise the draw is
// skipped.
//
// # Logging
//
// blit logs through log/slog and is silent by default. See SetLogger.
package blit
