// Package render draws diagram states.
//
// # Formats
//
// [SVG] and [PNG] draw the partition as a nearest-site raster: the plane is
// cut into a grid, every grid cell takes the color of the site closest to
// its center, and each row is emitted as runs of equal color. A finer
// [WithResolution] gives smoother cell borders at the cost of larger output.
//
//	svg := render.SVG(state, render.WithSites(), render.WithClickScript("/cells/{index}/click"))
//	png, err := render.PNG(state, render.WithScale(2))
//
// [WriteJSON] and [ReadJSON] exchange whole states, so a diagram can be saved
// and replayed later.
//
// The [nodelink] subpackage draws the neighbor graph instead of the cells.
package render
