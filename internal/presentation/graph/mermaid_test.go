package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/canvas/internal/presentation/graph"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/sebdah/goldie/v2"
)

func rel(id string, kind domain.Kind, name, from, to string) *domain.Element {
	return domain.NewRelationship(id, kind, name,
		domain.Port{Element: from, Direction: domain.Right},
		domain.Port{Element: to, Direction: domain.Left})
}

func TestGenerateMermaid_Golden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	classes := domain.FromElements(
		&domain.Element{ID: "pkg", Kind: domain.KindPackage, Name: "model", OwnedElements: []string{"person"}},
		&domain.Element{ID: "person", Kind: domain.KindClass, Name: "Person", Owner: "pkg", OwnedElements: []string{"name-attr"}, Selected: true},
		&domain.Element{ID: "name-attr", Kind: domain.KindClassAttribute, Name: "+ name: String", Owner: "person"},
		&domain.Element{ID: "order", Kind: domain.KindClass, Name: "Order", Interactive: true},
		rel("places", domain.KindClassAssociation, "places", "person", "order"),
	)
	g.Assert(t, "class_diagram", []byte(graph.GenerateMermaid(classes)))

	activity := domain.FromElements(
		&domain.Element{ID: "start", Kind: domain.KindActivityInitialNode},
		&domain.Element{ID: "ship", Kind: domain.KindActivityActionNode, Name: "Ship order"},
		&domain.Element{ID: "merge", Kind: domain.KindActivityMergeNode},
		&domain.Element{ID: "done", Kind: domain.KindActivityFinalNode},
		rel("f1", domain.KindActivityControlFlow, "", "start", "ship"),
		rel("f2", domain.KindActivityControlFlow, "shipped", "ship", "merge"),
		rel("f3", domain.KindActivityControlFlow, "", "merge", "done"),
	)
	g.Assert(t, "activity_diagram", []byte(graph.GenerateMermaid(activity)))
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		elements    []*domain.Element
		contains    []string
		notContains []string
	}{
		{
			name:     "Empty Diagram",
			contains: []string{"graph TD\n"},
			notContains: []string{
				"Overlay Styles",
			},
		},
		{
			name: "Empty Container Is A Node",
			elements: []*domain.Element{
				{ID: "p", Kind: domain.KindPackage, Name: "empty"},
			},
			contains:    []string{`p["empty"]`},
			notContains: []string{"subgraph"},
		},
		{
			name: "ID Sanitization",
			elements: []*domain.Element{
				{ID: "path/to/file.md", Kind: domain.KindClass},
				{ID: "hyphen-ated", Kind: domain.KindInterface, Name: "Shape"},
			},
			contains: []string{
				`path_to_file_md["Class"]`,
				`hyphen_ated[/"Shape"/]`,
			},
		},
		{
			name: "Relationship Arrows",
			elements: []*domain.Element{
				{ID: "a", Kind: domain.KindClass},
				{ID: "b", Kind: domain.KindAbstractClass},
				rel("r1", domain.KindClassInheritance, "", "a", "b"),
				rel("r2", domain.KindClassDependency, `uses "b"`, "b", "a"),
			},
			contains: []string{
				"a ==> b",
				`b -.->|"uses 'b'"| a`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(domain.FromElements(tt.elements...))
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected output to contain %q, got:\n%s", s, out)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(out, s) {
					t.Errorf("expected output not to contain %q, got:\n%s", s, out)
				}
			}
		})
	}
}

func TestGenerateMermaid_Nil(t *testing.T) {
	if got := graph.GenerateMermaid(nil); got != "graph TD\n" {
		t.Errorf("unexpected output for nil state: %q", got)
	}
}
