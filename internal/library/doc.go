// Package library persists the local track library in SQLite and exposes
// the partial tag updates the reconciler applies after a catalog match.
package library
