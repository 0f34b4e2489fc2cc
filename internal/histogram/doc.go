// Package histogram bins object areas and draws histogram figures.
//
// Object areas fall into three informal classes, small (< 1500 px²),
// medium (< 3000 px²) and large. Build picks only as many bins as the
// largest area needs, so a population of small objects gets a single bin
// instead of a row of empty ones.
//
// Figures are drawn with gonum.org/v1/plot and can be saved to any format
// plot supports (Save) or encoded in memory (Encode).
package histogram
