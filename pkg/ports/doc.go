/*
Package ports defines the driven ports (interfaces) of the canvas engine.

These interfaces decouple the core logic from concrete implementations, so the
engine can run with different id schemes, containment roots and diagram stores.

# Key Interfaces

  - Engine: applies an action to a snapshot and returns the cascaded result.
  - RootAccessor: supplies the containment tree root used by selection cascades.
  - IDGenerator: mints identities for created and duplicated elements.
  - DiagramStore: keeps named diagram Documents (e.g. in memory).
  - Dispatcher: an action sink bound to one diagram, used by gesture controllers.
*/
package ports
