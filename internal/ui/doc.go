// Package ui contains the Bubble Tea picker behind the "tui" launcher
// profile. It speaks the same contract as an external launcher: it receives
// lines and a prompt and returns exactly one chosen line, or reports that
// the user dismissed it.
//
// Message flow:
//   - Picker.Present builds a Model over the lines and runs it as a Bubble
//     Tea program bound to the caller's context, so cancelling the context
//     tears the picker down like killing a launcher process.
//   - Model.Update routes key presses through handleKey (input.go), which
//     edits the filter, moves the cursor or finishes the program.
//   - List state (items, filter, cursor, viewport) lives in
//     internal/ui/state.List.
package ui
