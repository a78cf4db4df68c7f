// Package reconcile drives batches of local tracks through the metadata
// reconciliation pipeline.
//
// The Reconciler loads each track from the library store, asks the catalog
// client for scored candidates, and either applies the best candidate
// directly (automatic and artwork-only modes) or hands the candidate sets
// back for manual review (SearchBatch followed by ApplySelections). Apply
// fetches full catalog details, runs the tag merge policy, writes the patch
// into the audio file, and records the catalog link in the library store.
//
// Tracks are processed strictly one at a time and failures are isolated:
// one track's error is recorded on its result and the batch moves on.
// Progress events are published to an injected sink after every phase
// transition; delivery is best-effort and can never fail a track.
package reconcile
