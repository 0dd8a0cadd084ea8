// Package scan discovers the regular files below a source root.
//
// Traversal uses an explicit work stack instead of recursion so very deep
// trees cannot exhaust the goroutine stack, yields entries in lexical order,
// and records unreadable directories or metadata as problems rather than
// aborting.
package scan
