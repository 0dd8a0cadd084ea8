// Package planner maps accepted files to destination paths.
//
// Destinations mirror the source-relative path below the destination root,
// optionally nested under a period label. The Planner also owns the collision
// policy: it tracks every destination claimed during the run, checks the
// filesystem for pre-existing files, and either fails, skips, renames with a
// " - dupN" suffix, or marks the operation as an overwrite.
package planner
