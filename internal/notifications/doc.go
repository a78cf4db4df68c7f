// Package notifications delivers pipeline events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Callers publish enumerated events with a payload map; the service
// owns the formatting and the delivery policy, including which events are too
// noisy to push at all. Pipeline code depends only on the Service interface.
package notifications
