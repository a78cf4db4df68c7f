// Package tagmerge decides which catalog fields overwrite, fill, or leave
// local tags alone. The one rule that must never regress: an existing local
// BPM is kept no matter what the catalog says.
package tagmerge
