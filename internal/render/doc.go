// Package render draws diagnostic views of a staff model: the traced
// gradient field and the fitted staves over the page.
//
// Both views return fresh NRGBA canvases and never modify their inputs.
package render
