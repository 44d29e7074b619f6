// Package viz renders the flux surface in the terminal: a braille
// pixel canvas, a perspective camera, a colored wireframe mesh built
// from the sampled grid, and a bubbletea viewer for interactive
// rotation and parameter tweaking.
package viz
