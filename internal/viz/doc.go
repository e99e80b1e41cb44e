// Package viz renders a running simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulation with keyboard control
//   - [NewInteractiveApp]: preset picker that tunes physics and starts a [Model]
//   - [Canvas]: Braille-based pixel canvas; the boundary, bodies and emitter
//     are drawn in sub-pixels
//
// # Key Bindings
//
//	Arrows  - Gravity up/down/left/right
//	WASD    - Move the emitter (HJKL also works)
//	Space   - Emit one body
//	E       - Toggle emission on every frame
//	P       - Pause/Resume simulation
//	R       - Remove all bodies
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// # Recording
//
// G records frames with each body in its own color and writes particles.gif
// to the current directory when recording stops or the program quits.
package viz
