//go:build !imagick

package magick

import "github.com/Fepozopo/fusion/pkg/graph"

// Available reports whether the ImageMagick backend is compiled in.
func Available() bool { return false }

// Operators returns an empty override catalog when built without the
// imagick tag.
func Operators() graph.Catalog { return graph.Catalog{} }
