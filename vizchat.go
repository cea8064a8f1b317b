// Package vizchat is a conversational chart client.
//
// A user exchanges messages with a remote assistant. Assistant replies may carry a
// loosely-structured visualization descriptor, and vizchat turns that descriptor into
// a renderable chart:
//
//	descriptor ──► normalize ──► classify ──► resolve keys ──► dispatch ──► ChartConfig
//
// Packages:
//
//	engine/      resolution pipeline (pure, no I/O)
//	descriptor/  wire decoding of visualization descriptors and chat messages
//	chatapi/     HTTP client for the chat backend
//	session/     client and chat id persistence
//	config/      environment, .env and YAML settings
//	render/      PNG, SVG, XLSX, CSV and table output
//	helpers/     CSV input
//	artifact/    chart upload to S3-compatible storage
//	server/      local preview server (HTTP + websocket)
//	cmd/vizchat  CLI
package vizchat
