// Package mover executes planned operations.
//
// A real move creates the destination directory and renames the file. When
// the rename crosses a filesystem boundary the mover copies into a temporary
// sibling, verifies size and SHA-256, restores mode and times, renames the
// copy into place and only then deletes the source. A failed source deletion
// removes the copy again so a file never exists twice. Dry runs perform no
// filesystem mutation at all.
package mover
