// Package viz provides terminal views of a spline animation.
//
//   - [Preview]: plays an animation on a braille [Canvas] with a side panel
//     tracking the moving control point
//   - [Progress]: spinner and progress bar shown while frames are encoded
//
// Themes share their palettes with the image renderer, so a preview looks
// like the video it previews.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the initial configuration
//	T     - Cycle color themes
//	Q     - Quit
//
// When looping, the preview holds the last frame for the repeat delay
// before starting over.
package viz
