// Package server implements the MCP (Model Context Protocol) server for plate
// recognition.
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
//   - image_load: Load and cache a photo, report its size
//   - plate_locate: List plate candidates of a photo
//   - plate_read: Recognize the plate in a photo
//   - plate_batch: Recognize every photo in a directory
//
// Photos are cached by path for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string as data.
package server
