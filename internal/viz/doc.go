// Package viz provides the terminal live view for a dissolve driver.
//
// The view ticks a driver in real time with Bubble Tea, plots the recent
// output with asciigraph and previews the dissolve mask on a Braille canvas.
//
// # Key Bindings
//
//	Space - Start the cycle
//	R     - Reset outputs to zero
//	0-9   - Set the output manually (0 = 0.0, 9 = 1.0)
//	P     - Pause/Resume ticking
//	Q     - Quit
//
// When built with a watch channel the view applies config edits as they are
// saved. A config that fails validation leaves the running one in place.
package viz
