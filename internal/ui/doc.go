// Package ui contains the Bubble Tea program that renders the server list as
// a paged menu. The Model type focuses on message orchestration while
// dedicated helpers own navigation, input, rendering and view updates.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (key presses, resizes, transfer results, view updates).
//   - Navigation helpers (navigation.go) move the cursor within and across
//     pages, toggle the ordering and request manual refreshes. Filter helpers
//     (input.go) keep text entry isolated from the event loop.
//
// State ownership:
//   - The list for the ordering on screen lives in internal/ui/state.Level,
//     which tracks filtering, the cursor and the page viewport.
//   - Views are owned by internal/views.Registry. The model never builds
//     descriptors itself; it is a views.Viewer and receives whole
//     MaterializedView values through Show.
//   - Transfers run asynchronously through the internal/ui/command bus and
//     come back as menu.ActionResult messages.
//
// View updates:
//   - The catalog cache signals on the Updates channel after every refresh.
//     The model waits on that channel and, on each signal, reopens its current
//     ordering so the registry hands it the freshly rebuilt view.
package ui
