// Package stream implements a pull-based, event-driven iterator core.
//
// Consumers either pull items on demand with Read, or subscribe to the
// "data" event to enter flow mode and have items pushed to them as the
// pipeline produces them. Every iterator in the package is a small state
// machine (see State) layered on top of an event bus (see emitter) and,
// for anything that produces items asynchronously, a bounded internal
// buffer (see BufferedIterator).
//
// Because Go has no virtual method dispatch, the "subclass overrides a
// hook" shape the design is built from (_begin/_read/_flush/_destroy in the
// originating design) is expressed as small interfaces implemented by
// concrete producer/transform types and driven by BufferedIterator, rather
// than inheritance.
package stream
