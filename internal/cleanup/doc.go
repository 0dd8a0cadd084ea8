// Package cleanup removes directories left empty by a run.
//
// The walk is post-order over an explicit stack so children are settled
// before their parent is examined. The root is never removed, ignored
// directories are never entered and keep their parent alive, and symbolic
// links count as content without being followed.
package cleanup
