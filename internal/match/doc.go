// Package match scores catalog candidates against local tracks and ranks
// candidate sets. Scoring is deterministic and side-effect free; all weights
// and thresholds come from the matcher configuration section.
package match
