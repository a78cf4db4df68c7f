// Package services defines shared utilities consumed across the
// reconciliation pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp track IDs, batch IDs, pipeline phases, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (catalog unavailable, not found, store, tag write,
//     invalid input) uniform across components.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// stays consistent between the orchestrator, the catalog client, and the CLI.
package services
