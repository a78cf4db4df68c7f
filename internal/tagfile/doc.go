// Package tagfile reads and writes container-level audio tags through
// taglib. Reads seed library rows during scans; writes apply merge patches
// without touching keys the patch does not name.
package tagfile
