package stdimg

import (
	"image"

	"golang.org/x/image/draw"
)

// Crop returns the part of src inside r. An empty r, or one that does not
// overlap src, yields an empty image.
func Crop(src *image.NRGBA, r image.Rectangle) *image.NRGBA {
	if src == nil {
		return nil
	}
	r = r.Intersect(src.Bounds())
	out := image.NewNRGBA(r)
	if r.Empty() {
		return out
	}
	draw.Copy(out, r.Min, src, r, draw.Src, nil)
	return out
}
