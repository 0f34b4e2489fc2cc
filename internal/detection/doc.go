// Package detection finds and measures objects in binary masks.
//
// The package covers the middle of the object pipeline: a foreground mask
// goes in, measured regions come out.
//
//  1. TraceContours: Suzuki-Abe border following finds every outer and hole
//     border of the 8-connected foreground components.
//  2. Measurer.Measure: contours whose bounding box touches the image frame
//     are dropped (see BorderPolicy); the rest get an area, a perimeter and
//     a centroid from polygon moments.
//  3. RenderLabels and WriteReport: the labeled visualization and the
//     console report.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Contour points are pixel centers. Geometry is computed on the polygon
// through those centers, so a filled w×h rectangle measures
// (w-1)×(h-1) square pixels with a perimeter of 2(w-1)+2(h-1). Its centroid
// is exact: (x0 + w/2 - 0.5, y0 + h/2 - 0.5).
//
// # Determinism
//
// Every function here is a pure function of its inputs. Contours are
// returned in raster order of their first pixel, regions keep that order,
// and region indices are positions in the retained list.
package detection
