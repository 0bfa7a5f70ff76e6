// Package render turns viewports and rules into pixels.
//
// Escape-time images go through Escape then Colorize. Buddhabrot images
// start from an accumulated density.Grid and go through Density for
// export at full resolution, or DensityFrame for a terminal-sized view.
package render
