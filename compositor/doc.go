// Package compositor paints overlay frames into ARGB8888 pixel buffers.
//
// A frame is a background filled over the whole buffer followed by an
// optional circular indicator blended with the luminosity operator, which
// brightens the background under the pointer without hiding it.
package compositor
