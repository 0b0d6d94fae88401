/*
Package canvas is the state core of an interactive UML diagram editor.

A diagram is an immutable snapshot (domain.State) of placed elements: containers
such as packages and classes, plain nodes, members, and relationships between
element ports. Every change is expressed as an Action. The engine applies it
with a pure reducer and then runs effects that derive follow-up actions, such as
clearing other selections, bubbling hover state to owners, duplicating children
or deleting what a removal leaves dangling. Follow-ups are applied depth-first
until the cascade settles.

# Concept

The host (a rendering layer, a CLI, an HTTP service) owns the current snapshot and
feeds user gestures in as actions. The engine never mutates a snapshot: a dispatch
returns a new one that shares every untouched element with its predecessor, which
makes change detection a pointer comparison and undo a matter of keeping old
snapshots around (see package session).

# Usage

	eng := canvas.New()
	state := domain.NewState()

	pkg := eng.NewElement(domain.KindPackage, "model")
	res, err := eng.Dispatch(ctx, state, domain.Create(pkg))
	if err != nil {
		log.Fatal(err)
	}

	cls := eng.NewElement(domain.KindClass, "Person")
	cls.Owner = pkg.ID
	res, err = eng.Dispatch(ctx, res.State, domain.Create(cls))

	// Select and drag: MOVE without id displaces the whole selection.
	res, err = eng.Dispatch(ctx, res.State, domain.Select(cls.ID, false, false))
	res, err = eng.Dispatch(ctx, res.State, domain.Move("", domain.Point{X: 10, Y: 0}))
*/
package canvas
