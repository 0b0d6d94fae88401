package domain

// Direction identifies one of the four sides of an element.
type Direction string

const (
	Up    Direction = "Up"
	Right Direction = "Right"
	Down  Direction = "Down"
	Left  Direction = "Left"
)

// Directions lists the sides in clockwise order starting at the top.
var Directions = []Direction{Up, Right, Down, Left}

// Port is a connection anchor on an element.
type Port struct {
	Element   string    `json:"element" yaml:"element" mapstructure:"element"`
	Direction Direction `json:"direction" yaml:"direction" mapstructure:"direction"`
}

// Anchor returns the port position relative to the element's own origin.
func (d Direction) Anchor(b Bounds) Point {
	switch d {
	case Up:
		return Point{X: b.Width / 2, Y: 0}
	case Right:
		return Point{X: b.Width, Y: b.Height / 2}
	case Down:
		return Point{X: b.Width / 2, Y: b.Height}
	case Left:
		return Point{X: 0, Y: b.Height / 2}
	}
	return Point{}
}
