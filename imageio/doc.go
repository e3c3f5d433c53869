// Package imageio provides the built-in bitmap codecs.
//
// Install registers loaders and savers for PNG, JPEG (.jpg and .jpeg),
// BMP, TIFF (.tif and .tiff) and TGA, and a loader for WebP, into a
// blit.CodecRegistry:
//
//	imageio.Install(blit.DefaultCodecs())
//	bmp, err := dc.LoadBitmap("sprite.tga")
//
// Decoded images become bitmaps through blit.Context.BitmapFromImage, so
// the context's new-bitmap flags and format apply. Savers read the bitmap
// through a read-only lock.
//
// Streams without a known extension can be identified with Sniff, which
// inspects the leading bytes:
//
//	bmp, err := imageio.Load(dc, resp.Body)
package imageio
