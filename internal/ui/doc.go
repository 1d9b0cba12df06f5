// Package ui renders tapo-chatter output in the terminal.
//
// Lipgloss draws the boxes and tables; Bubble Tea drives the live monitor
// view. Apart from the live view every component follows a "render once"
// pattern: it builds a string and the Printer writes it out.
//
// # Architecture
//
//   - Header: command banner showing the operation and its parameters
//   - Result: success, failure and warning boxes with troubleshooting tips
//   - Tables: discovered devices and hub children
//   - ScanProgress: single-line progress bar redrawn on stderr during a sweep
//   - Trace: error chain and per-host failures for verbose mode
//   - LiveModel: Bubble Tea model that refreshes the child table on every
//     monitor snapshot
//
// # Output Streams
//
// Tables, JSON and result boxes go to stdout. Progress and verbose traces go
// to stderr so that `discover --json` stays machine readable.
//
// # Logging Integration
//
// Logging is controlled with --log-level or TAPO_LOG_LEVEL. When neither is
// set zap is silent and only the rendered output is shown.
package ui
