// Package server implements the MCP (Model Context Protocol) server for the
// object measurement tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - image_intensity_stats: Min, max and mean sample value
//   - image_edge_detect: Edge map as base64 PNG
//   - objects_measure: Bounding box, area, perimeter and centroid per object
//   - objects_area_histogram: Area classes and the rendered figure
//
// Arguments a client leaves out take their value from the configuration the
// server was started with.
//
// # Image Caching
//
// The server keeps loaded rasters in memory, keyed by path, for the lifetime
// of the process.
package server
