/*
Package domain contains the core model of the canvas engine.

It defines the entities of a diagram (Elements, Containers and Relationships),
the immutable State snapshot they live in, and the Actions that mutate it.
This package is kept pure and free of I/O, following Hexagonal Architecture
principles; the reducer and effects live in internal/runtime.

# Key Entities

  - Element: a placed diagram entity with bounds and display flags.
  - Container: an Element whose Kind carries the Container capability; it owns child Elements.
  - Relationship: an Element connecting two Ports.
  - Port: an ephemeral connection anchor (element + direction) used during connect gestures.
  - State: an immutable id→Element snapshot with an ordered list of diagram-level roots.
  - Action: the discriminated command applied to a State.
*/
package domain
