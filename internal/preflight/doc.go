// Package preflight provides readiness checks for the external tools and
// filesystem paths a storyboard run depends on.
//
// These checks run in two contexts:
//   - The CLI "storyboard generate" command calls RunAll before starting the
//     pipeline, so a missing ffmpeg or read-only target fails in milliseconds
//     instead of mid-run.
//   - The CLI "storyboard deps" command displays the same results as a table.
package preflight
