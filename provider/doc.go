// Package provider holds the small set of backend-adaptation interfaces
// shared across this module's synchronous-facing integrations.
//
// Provider/Factory[T] give a uniform shape for naming and constructing a
// swappable backend. Initializable/Closeable are opt-in lifecycle hooks a
// provider implements when it needs setup or teardown beyond construction.
// Status/HealthStatus/HealthChecker let a provider report more than a bare
// IsAvailable() bool.
//
// Iterator[T] is the context-based pull interface backend adapters are
// expected to speak: Next(ctx) (T, bool, error), Close() error. The
// stream package's event-driven Iterator[T] is adapted onto this shape (and
// back) in stream/provider_adapter.go, so a stream.Iterator can be handed to
// code written against the synchronous provider.Iterator contract and vice
// versa. DuplexStream[I, O] is the bidirectional counterpart for transports
// (WebSocket, gRPC bidi-stream) that don't fit a single-direction Iterator.
package provider
