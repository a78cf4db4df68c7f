// Package catalog provides the typed HTTP client for the remote track
// catalog. Search results come back scored and ranked against the local
// track; requests are paced by a client-owned rate limiter so each batch
// respects the catalog's implicit request-rate expectations.
package catalog
