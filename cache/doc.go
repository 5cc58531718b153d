// Package cache provides a small generic LRU cache.
//
// The overlay uses it to keep background images scaled to the sizes of the
// connected outputs, so a repaint never rescales the source image:
//
//	scaled := cache.NewLRU[image.Point, *image.ImageBuf](4)
//	img, err := scaled.GetOrCreate(size, func() (*image.ImageBuf, error) {
//	    return scale(src, size)
//	})
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
