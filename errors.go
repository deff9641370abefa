package pixconv

import "errors"

var (
	// ErrInvalidDimensions is returned when a grid has a non-positive width or height,
	// or when its pixel buffer does not match the declared dimensions.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")

	// ErrAllocation is returned when the destination pixel buffer cannot be obtained.
	ErrAllocation = errors.New("unable to allocate pixel buffer")

	// ErrUnknownEffect is returned when an effect name is not registered.
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrNotBitmap is returned when the source does not start with the "BM" signature.
	ErrNotBitmap = errors.New("not a bitmap file")

	// ErrUnsupportedDepth is returned for bitmaps which are not 24 bits per pixel.
	ErrUnsupportedDepth = errors.New("unsupported bits per pixel")

	// ErrCompressedBitmap is returned for bitmaps whose pixel data is not stored uncompressed.
	ErrCompressedBitmap = errors.New("compressed bitmaps are not supported")
)
