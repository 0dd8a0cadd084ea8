// Package preflight verifies the filesystem before a run touches anything.
//
// The source root must exist, be a directory and allow listing and removing
// entries. The destination root is created when missing and must accept new
// entries. Ignored paths that do not exist are reported as warnings only.
//
// Permission checks use access(2) and therefore only apply to the OS
// filesystem; in-memory filesystems used by tests only get existence and type
// checks.
package preflight
