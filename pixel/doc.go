// Package pixel implements the binary images exchanged between content producers and display sinks.
//
// All images in this package hold exactly one bit per pixel and are compatible with Go's native
// [color.Color] and [image.Image] / [draw.Image] interfaces, so they can be used as targets for
// [golang.org/x/image/font] text rendering and the shape primitives in the draw package.
package pixel
