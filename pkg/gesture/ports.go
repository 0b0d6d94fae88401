package gesture

import "github.com/aretw0/canvas/pkg/domain"

// Ports returns the four connection ports of el, or nil when its kind cannot be connected.
func Ports(el *domain.Element) []domain.Port {
	if el == nil || !el.Capabilities().Connectable {
		return nil
	}
	out := make([]domain.Port, 0, len(domain.Directions))
	for _, d := range domain.Directions {
		out = append(out, domain.Port{Element: el.ID, Direction: d})
	}
	return out
}

// Anchor returns the point of b where a port facing d attaches, relative to b's owner.
func Anchor(b domain.Bounds, d domain.Direction) domain.Point {
	p := d.Anchor(b)
	return domain.Point{X: b.X + p.X, Y: b.Y + p.Y}
}

// AbsoluteAnchor resolves a port to diagram coordinates.
func AbsoluteAnchor(state *domain.State, port domain.Port) (domain.Point, error) {
	el, err := state.Lookup(port.Element)
	if err != nil {
		return domain.Point{}, err
	}
	origin, err := state.AbsolutePosition(port.Element)
	if err != nil {
		return domain.Point{}, err
	}
	p := port.Direction.Anchor(el.Bounds)
	return domain.Point{X: origin.X + p.X, Y: origin.Y + p.Y}, nil
}
