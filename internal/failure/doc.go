// Package failure defines the error markers archivist uses to classify what
// went wrong during a run.
//
// Errors are wrapped with a marker plus stage and operation context so the CLI
// can pick an exit status with errors.Is without parsing message text.
package failure
