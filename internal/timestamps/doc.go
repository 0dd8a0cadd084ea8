// Package timestamps reads the raw creation, modification, and access times a
// platform exposes for a file and resolves them into the single effective date
// used for filtering and grouping.
//
// Not every filesystem records every kind; missing kinds are simply absent
// from Times and never fabricated.
package timestamps
