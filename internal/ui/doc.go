// Package ui renders terminal output for the lddc-config CLI.
//
// Output is run-once: nothing here reads input or keeps a screen open.
// Components are plain values with a Render method built on Lipgloss:
//
//   - Header: banner with the command name and the configuration file
//   - Section/Row: the settings listing printed by "show"
//   - Result: success, warning and failure boxes
//
// Callers check IsTerminal(os.Stdout) and fall back to RenderPlain (or JSON) when
// stdout is redirected, so scripts never see escape sequences.
//
// Logging is controlled separately through LDDC_LOG_LEVEL and goes to
// stderr, so it does not interleave with this output.
package ui
