// Package textutil provides the text normalization and similarity primitives
// used for matching track metadata.
//
// The primary use cases are:
//   - Normalizing titles and artist strings for comparison (case folding,
//     diacritics removal, connector symbols, order-insensitive token forms)
//   - Creating token-based fingerprints and computing cosine similarity
//   - Stripping bracketed mix/edit suffixes from titles before search
//
// Fingerprints use term frequency vectors normalized for efficient
// comparison. Tokenization keeps short tokens since one- and two-character
// artist names are common in music metadata.
package textutil
