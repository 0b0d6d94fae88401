package domain

// Kind discriminates the variant of an Element.
type Kind string

// Activity diagram kinds.
const (
	KindActivity            Kind = "Activity"
	KindActivityInitialNode Kind = "ActivityInitialNode"
	KindActivityFinalNode   Kind = "ActivityFinalNode"
	KindActivityActionNode  Kind = "ActivityActionNode"
	KindActivityObjectNode  Kind = "ActivityObjectNode"
	KindActivityMergeNode   Kind = "ActivityMergeNode"
	KindActivityForkNode    Kind = "ActivityForkNode"
	KindActivityControlFlow Kind = "ActivityControlFlow"
)

// Class diagram kinds.
const (
	KindPackage          Kind = "Package"
	KindClass            Kind = "Class"
	KindAbstractClass    Kind = "AbstractClass"
	KindInterface        Kind = "Interface"
	KindEnumeration      Kind = "Enumeration"
	KindClassAttribute   Kind = "ClassAttribute"
	KindClassMethod      Kind = "ClassMethod"
	KindClassAssociation Kind = "ClassAssociation"
	KindClassInheritance Kind = "ClassInheritance"
	KindClassDependency  Kind = "ClassDependency"
)

// Capabilities is the static feature set of a Kind.
type Capabilities struct {
	Selectable   bool
	Hoverable    bool
	Movable      bool
	Resizable    bool
	Connectable  bool
	Container    bool
	Relationship bool

	// DefaultSize is applied by constructors when no size is given.
	DefaultSize Size
}

var (
	nodeCaps = Capabilities{
		Selectable:  true,
		Hoverable:   true,
		Movable:     true,
		Resizable:   true,
		Connectable: true,
		DefaultSize: Size{Width: 200, Height: 100},
	}
	containerCaps = Capabilities{
		Selectable:  true,
		Hoverable:   true,
		Movable:     true,
		Resizable:   true,
		Connectable: true,
		Container:   true,
		DefaultSize: Size{Width: 200, Height: 100},
	}
	memberCaps = Capabilities{
		DefaultSize: Size{Width: 200, Height: 30},
	}
	relationshipCaps = Capabilities{
		Selectable:   true,
		Hoverable:    true,
		Relationship: true,
	}
)

func sized(c Capabilities, w, h float64) Capabilities {
	c.DefaultSize = Size{Width: w, Height: h}
	return c
}

var capabilities = map[Kind]Capabilities{
	KindActivity:            sized(containerCaps, 400, 300),
	KindActivityInitialNode: sized(nodeCaps, 45, 45),
	KindActivityFinalNode:   sized(nodeCaps, 45, 45),
	KindActivityActionNode:  nodeCaps,
	KindActivityObjectNode:  nodeCaps,
	KindActivityMergeNode:   sized(nodeCaps, 100, 60),
	KindActivityForkNode:    sized(nodeCaps, 20, 60),
	KindActivityControlFlow: relationshipCaps,

	KindPackage:          containerCaps,
	KindClass:            containerCaps,
	KindAbstractClass:    containerCaps,
	KindInterface:        containerCaps,
	KindEnumeration:      containerCaps,
	KindClassAttribute:   memberCaps,
	KindClassMethod:      memberCaps,
	KindClassAssociation: relationshipCaps,
	KindClassInheritance: relationshipCaps,
	KindClassDependency:  relationshipCaps,
}

// CapabilitiesOf returns the capability set of a kind.
// Unknown kinds behave as plain, non-container nodes.
func CapabilitiesOf(k Kind) Capabilities {
	if c, ok := capabilities[k]; ok {
		return c
	}
	return nodeCaps
}

// IsKnown reports whether k is part of the capability table.
func (k Kind) IsKnown() bool {
	_, ok := capabilities[k]
	return ok
}

// DiagramType selects the family of kinds a diagram works with.
type DiagramType string

const (
	ActivityDiagram DiagramType = "ActivityDiagram"
	ClassDiagram    DiagramType = "ClassDiagram"
)

// DefaultRelationshipKind is the kind created by a connect gesture.
func (t DiagramType) DefaultRelationshipKind() Kind {
	switch t {
	case ClassDiagram:
		return KindClassAssociation
	default:
		return KindActivityControlFlow
	}
}
