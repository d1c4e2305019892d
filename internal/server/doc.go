// Package server implements the MCP (Model Context Protocol) server for the photo editor.
//
// This package provides a JSON-RPC 2.0 server that exposes one editing session
// through the MCP protocol. An MCP client loads an image, adjusts it with
// sliders or natural-language prompts, and exports the result.
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
// Image State:
//   - image_load: Load an image and reset the session
//   - image_info: Dimensions, crop, parameters and history depth
//   - image_params: Current parameter values
//
// Adjustments:
//   - image_adjust: Set one parameter
//   - image_adjust_batch: Set several parameters as one undo step
//   - image_prompt: Apply an Italian or English editing command
//   - image_crop_ratio: Centre-crop to 1:1, 4:3, 16:9, 9:16 or back to original
//
// History:
//   - image_undo, image_redo
//
// Output:
//   - image_save: Export the rendered image (format from the extension)
//   - image_preview: Rendered image as base64 PNG
//   - image_stats: Average colour, tone and dominant colours
//
// Presets:
//   - preset_save, preset_apply, preset_list, preset_delete
//
// Activity:
//   - activity_log: Most recent session events, newest first
//
// # Session State
//
// The server owns a single engine.Engine. Requests are handled one at a time
// in the order they arrive, so the engine needs no locking.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(eng, logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal().Err(err).Msg("server stopped")
//	}
package server
