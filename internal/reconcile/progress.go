package reconcile

import "stylus/internal/logging"

// ProgressSink receives progress events from a running batch. Delivery is
// fire-and-forget: there is no acknowledgement and no backpressure, and
// implementations should return quickly.
type ProgressSink interface {
	Publish(event ProgressEvent)
}

// NopSink discards every event.
type NopSink struct{}

// Publish implements ProgressSink.
func (NopSink) Publish(ProgressEvent) {}

// SinkFunc adapts a plain function to a ProgressSink.
type SinkFunc func(ProgressEvent)

// Publish implements ProgressSink.
func (f SinkFunc) Publish(event ProgressEvent) { f(event) }

// ChannelSink buffers events for a consumer goroutine. Events published
// while the buffer is full are dropped so the pipeline never stalls on a
// slow consumer.
type ChannelSink struct {
	events chan ProgressEvent
}

// NewChannelSink returns a sink with the given buffer capacity. Capacities
// below one are raised to one.
func NewChannelSink(capacity int) *ChannelSink {
	if capacity < 1 {
		capacity = 1
	}
	return &ChannelSink{events: make(chan ProgressEvent, capacity)}
}

// Publish implements ProgressSink.
func (s *ChannelSink) Publish(event ProgressEvent) {
	select {
	case s.events <- event:
	default:
	}
}

// Events exposes the buffered event stream.
func (s *ChannelSink) Events() <-chan ProgressEvent {
	return s.events
}

// Close ends the event stream. Publish must not be called after Close.
func (s *ChannelSink) Close() {
	close(s.events)
}

// publish delivers an event to the configured sink. A panicking sink is
// contained here so progress reporting can never fail a track.
func (r *Reconciler) publish(event ProgressEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("progress sink panicked", logging.Any("panic", rec))
		}
	}()
	r.sink.Publish(event)
}
