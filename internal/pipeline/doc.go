// Package pipeline runs the object-measurement pipeline over a batch of
// PNG files.
//
// The Orchestrator validates the inputs, then for each image:
//
//  1. loads it into a Raster,
//  2. runs the Analyzer (edge map, foreground mask, contours, regions,
//     area histogram),
//  3. writes the console report,
//  4. emits <name>_edge.png, <name>_objp.png and <name>_hist.<ext> to the
//     Sink.
//
// The Sink decides what emitting means: DirSink stores artifacts in a
// directory, DisplaySink opens them in a viewer. The caller picks one sink
// per run.
//
// # Errors
//
// Input problems are reported together as ErrFileValidation before any
// image is read. Any error while processing an image aborts the run; images
// already reported stay reported, the failing image emits nothing.
package pipeline
