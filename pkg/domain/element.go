package domain

// Point is a position or a relative delta.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
}

// Bounds places an element relative to its owner.
type Bounds struct {
	X      float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y      float64 `json:"y" yaml:"y" mapstructure:"y"`
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
}

// Element is a placed diagram entity.
// Elements held by a State are shared between snapshots and must be treated as read-only;
// use Copy or Clone to derive a modified value.
type Element struct {
	ID    string `json:"id" yaml:"id" mapstructure:"id"`
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Kind  Kind   `json:"kind" yaml:"kind" mapstructure:"kind"`
	Owner string `json:"owner,omitempty" yaml:"owner,omitempty" mapstructure:"owner"`

	Bounds Bounds `json:"bounds" yaml:"bounds" mapstructure:"bounds"`

	Selected    bool `json:"selected,omitempty" yaml:"selected,omitempty" mapstructure:"selected"`
	Hovered     bool `json:"hovered,omitempty" yaml:"hovered,omitempty" mapstructure:"hovered"`
	Interactive bool `json:"interactive,omitempty" yaml:"interactive,omitempty" mapstructure:"interactive"`

	// OwnedElements is the ordered child list of a Container.
	OwnedElements []string `json:"owned_elements,omitempty" yaml:"owned_elements,omitempty" mapstructure:"owned_elements"`

	// Source and Target are the endpoints of a Relationship.
	Source *Port `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"`
	Target *Port `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
}

// NewElement builds an element of the given kind with the kind's default size.
func NewElement(id string, kind Kind, name string) *Element {
	size := CapabilitiesOf(kind).DefaultSize
	return &Element{
		ID:     id,
		Name:   name,
		Kind:   kind,
		Bounds: Bounds{Width: size.Width, Height: size.Height},
	}
}

// NewRelationship builds a relationship element between two ports.
func NewRelationship(id string, kind Kind, name string, source, target Port) *Element {
	return &Element{
		ID:     id,
		Name:   name,
		Kind:   kind,
		Source: &source,
		Target: &target,
	}
}

// Capabilities returns the static features of the element's kind.
func (e *Element) Capabilities() Capabilities {
	return CapabilitiesOf(e.Kind)
}

// IsContainer reports whether the element may own children.
func (e *Element) IsContainer() bool {
	return e.Capabilities().Container
}

// IsRelationship reports whether the element connects two ports.
func (e *Element) IsRelationship() bool {
	return e.Capabilities().Relationship
}

// Connects reports whether the relationship has id as one of its endpoints.
func (e *Element) Connects(id string) bool {
	return (e.Source != nil && e.Source.Element == id) || (e.Target != nil && e.Target.Element == id)
}

// Copy returns a copy of the element that shares no mutable memory with it.
func (e *Element) Copy() *Element {
	c := *e
	if e.OwnedElements != nil {
		c.OwnedElements = append([]string(nil), e.OwnedElements...)
	}
	if e.Source != nil {
		src := *e.Source
		c.Source = &src
	}
	if e.Target != nil {
		dst := *e.Target
		c.Target = &dst
	}
	return &c
}

// Clone returns a copy of the element carrying a new identity.
// The child list is copied into a new slice; callers re-creating children
// independently are expected to clear it.
func (e *Element) Clone(id string) *Element {
	c := e.Copy()
	c.ID = id
	return c
}
