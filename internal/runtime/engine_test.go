package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/canvas/internal/idgen"
	"github.com/aretw0/canvas/internal/runtime"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t      *testing.T
	engine *runtime.Engine
	state  *domain.State
}

func newFixture(t *testing.T, opts ...runtime.EngineOption) *fixture {
	opts = append([]runtime.EngineOption{runtime.WithIDGenerator(idgen.NewSequence("dup-"))}, opts...)
	return &fixture{t: t, engine: runtime.NewEngine(opts...), state: domain.NewState()}
}

func (f *fixture) add(id string, kind domain.Kind, owner string, x, y float64) *fixture {
	f.t.Helper()
	el := domain.NewElement(id, kind, id)
	el.Owner = owner
	el.Bounds.X, el.Bounds.Y = x, y
	f.do(domain.Create(el))
	return f
}

func (f *fixture) connect(id, from, to string) *fixture {
	f.t.Helper()
	rel := domain.NewRelationship(id, domain.KindClassAssociation, "",
		domain.Port{Element: from, Direction: domain.Right},
		domain.Port{Element: to, Direction: domain.Left})
	f.do(domain.Create(rel))
	return f
}

func (f *fixture) do(a domain.Action) *domain.Result {
	f.t.Helper()
	res, err := f.engine.Dispatch(context.Background(), f.state, a)
	require.NoError(f.t, err, "dispatch %s", a)
	f.state = res.State
	return res
}

func (f *fixture) get(id string) *domain.Element {
	f.t.Helper()
	el, err := f.state.Lookup(id)
	require.NoError(f.t, err)
	return el
}

func TestEngine_DuplicateContainer(t *testing.T) {
	f := newFixture(t).
		add("p", domain.KindPackage, "", 10, 10).
		add("c1", domain.KindClass, "p", 5, 5).
		add("c2", domain.KindClass, "p", 50, 5)
	f.do(domain.Select("p", false, false))
	before := f.state

	res := f.do(domain.Duplicate("p", ""))

	clone := f.get("dup-1")
	assert.Equal(t, domain.KindPackage, clone.Kind)
	assert.Equal(t, float64(40), clone.Bounds.X)
	assert.Equal(t, float64(40), clone.Bounds.Y)
	assert.Empty(t, clone.Owner)
	assert.Equal(t, []string{"dup-2", "dup-3"}, clone.OwnedElements)

	for i, src := range []string{"c1", "c2"} {
		child := f.get(clone.OwnedElements[i])
		assert.Equal(t, "dup-1", child.Owner)
		assert.Equal(t, f.get(src).Bounds, child.Bounds, "children keep their relative position")
	}

	assert.Equal(t, []string{"c1", "c2"}, f.get("p").OwnedElements, "source untouched")
	assert.Equal(t, []string{"dup-1"}, f.state.Selection())
	assert.Equal(t, []string{"p", "dup-1"}, f.state.Roots())
	assert.Equal(t, 3, before.Len(), "previous snapshot keeps its size")
	assert.Empty(t, res.Rejected)

	var types []domain.ActionType
	for _, a := range res.Applied {
		types = append(types, a.Type)
	}
	assert.Equal(t, []domain.ActionType{
		domain.ActionDuplicate,
		domain.ActionSelect, domain.ActionSelect, // clear, then deselect p
		domain.ActionCreate,
		domain.ActionDuplicate, domain.ActionCreate,
		domain.ActionDuplicate, domain.ActionCreate,
		domain.ActionSelect,
	}, types)
}

func TestEngine_DuplicateIntoParent(t *testing.T) {
	f := newFixture(t).
		add("p", domain.KindPackage, "", 0, 0).
		add("q", domain.KindPackage, "", 300, 0).
		add("c", domain.KindClass, "p", 5, 5)

	f.do(domain.Duplicate("c", "q"))

	clone := f.get("dup-1")
	assert.Equal(t, "q", clone.Owner)
	assert.Equal(t, f.get("c").Bounds, clone.Bounds, "no offset when a parent is given")
	assert.Equal(t, []string{"dup-1"}, f.get("q").OwnedElements)
	assert.Empty(t, f.state.Selection())
}

func TestEngine_CreateDuplicateDelete(t *testing.T) {
	f := newFixture(t).add("a", domain.KindClass, "", 0, 0)

	f.do(domain.Duplicate("a", ""))
	f.do(domain.Delete("a"))

	assert.False(t, f.state.Has("a"))
	dup := f.get("dup-1")
	assert.Equal(t, domain.KindClass, dup.Kind)
	assert.Equal(t, []string{"dup-1"}, f.state.Roots())
}

func TestEngine_HoverBubbling(t *testing.T) {
	f := newFixture(t).
		add("pkg", domain.KindPackage, "", 0, 0).
		add("cls", domain.KindClass, "pkg", 0, 0).
		add("attr", domain.KindClassAttribute, "cls", 0, 0)

	f.do(domain.Hover("pkg", false))
	f.do(domain.Hover("cls", false))
	res := f.do(domain.Hover("attr", false))

	assert.Len(t, res.Applied, 2, "an internal follow-up never bubbles further")
	assert.True(t, f.get("attr").Hovered)
	assert.False(t, f.get("cls").Hovered)
	assert.False(t, f.get("pkg").Hovered)

	f.do(domain.Leave("attr", false))
	assert.False(t, f.get("attr").Hovered)
	assert.True(t, f.get("cls").Hovered, "leaving a child re-hovers its owner")
	assert.False(t, f.get("pkg").Hovered)
}

func TestEngine_SelectExclusivity(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
		f.add(id, domain.KindClass, "", 0, 0)
	}

	f.do(domain.Select("e1", false, false))
	f.do(domain.Select("e2", true, false))
	f.do(domain.Select("e3", false, true))
	assert.Equal(t, []string{"e1", "e2", "e3"}, f.state.Selection())

	f.do(domain.Select("e5", false, false))
	assert.Equal(t, []string{"e5"}, f.state.Selection())

	f.do(domain.Select("", false, false))
	assert.Empty(t, f.state.Selection())
}

func TestEngine_SelectToggleRoundTrip(t *testing.T) {
	f := newFixture(t).add("x", domain.KindClass, "", 0, 0)
	original := *f.get("x")

	f.do(domain.Select("x", true, false))
	assert.True(t, f.get("x").Selected)
	f.do(domain.Select("x", true, false))
	assert.Equal(t, original, *f.get("x"))
}

func TestEngine_MakeInteractive(t *testing.T) {
	f := newFixture(t).
		add("p", domain.KindPackage, "", 0, 0).
		add("c", domain.KindClass, "p", 0, 0)

	f.do(domain.MakeInteractive("c"))
	assert.True(t, f.get("c").Interactive)

	f.do(domain.MakeInteractive("p"))
	assert.False(t, f.get("c").Interactive, "descendant switched off")
	assert.False(t, f.get("p").Interactive, "container unchanged while a descendant was interactive")

	f.do(domain.MakeInteractive("p"))
	assert.True(t, f.get("p").Interactive)

	f.do(domain.MakeInteractive("c"))
	assert.False(t, f.get("p").Interactive, "interactive owner switched off")
	assert.False(t, f.get("c").Interactive)

	f.do(domain.MakeInteractive("c"))
	assert.True(t, f.get("c").Interactive)
	f.do(domain.MakeInteractive("c"))
	assert.False(t, f.get("c").Interactive, "plain toggle")
}

func TestEngine_MakeInteractiveRelationship(t *testing.T) {
	f := newFixture(t).
		add("a", domain.KindClass, "", 0, 0).
		add("b", domain.KindClass, "", 300, 0).
		connect("r", "a", "b")

	f.do(domain.MakeInteractive("r"))
	assert.True(t, f.get("r").Interactive)
	f.do(domain.MakeInteractive("r"))
	assert.False(t, f.get("r").Interactive)
}

func TestEngine_MoveSelection(t *testing.T) {
	f := newFixture(t).
		add("p", domain.KindPackage, "", 10, 10).
		add("c", domain.KindClass, "p", 5, 5).
		add("o", domain.KindClass, "", 100, 100).
		add("q", domain.KindPackage, "", 200, 200).
		add("r", domain.KindClass, "q", 1, 1).
		add("s", domain.KindClass, "q", 2, 2)

	f.do(domain.Select("p", false, false))
	f.do(domain.Select("c", true, false))
	f.do(domain.Select("o", true, false))
	f.do(domain.Select("r", true, false))

	res := f.do(domain.Move("", domain.Point{X: 5, Y: -5}))
	assert.Len(t, res.Applied, 4)

	assert.Equal(t, domain.Point{X: 15, Y: 5}, pos(f.get("p")))
	assert.Equal(t, domain.Point{X: 5, Y: 5}, pos(f.get("c")), "absorbed by its selected owner")
	assert.Equal(t, domain.Point{X: 105, Y: 95}, pos(f.get("o")))
	assert.Equal(t, domain.Point{X: 200, Y: 200}, pos(f.get("q")))
	assert.Equal(t, domain.Point{X: 6, Y: -4}, pos(f.get("r")))
	assert.Equal(t, domain.Point{X: 2, Y: 2}, pos(f.get("s")))

	abs, err := f.state.AbsolutePosition("c")
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 20, Y: 10}, abs, "moves with its owner")
}

func pos(el *domain.Element) domain.Point {
	return domain.Point{X: el.Bounds.X, Y: el.Bounds.Y}
}

func TestEffectiveSelection(t *testing.T) {
	f := newFixture(t).
		add("p", domain.KindPackage, "", 0, 0).
		add("c", domain.KindClass, "p", 0, 0).
		add("d", domain.KindClass, "p", 0, 0)
	f.do(domain.Select("d", false, false))

	p := f.get("p")
	assert.Equal(t, []string{"d"}, runtime.EffectiveSelection(f.state, p))

	f.do(domain.Select("p", true, false))
	assert.Equal(t, []string{"p"}, runtime.EffectiveSelection(f.state, f.get("p")))
	assert.Nil(t, runtime.EffectiveSelection(f.state, nil))
}

func TestEngine_DeleteCascade(t *testing.T) {
	f := newFixture(t).
		add("p", domain.KindPackage, "", 0, 0).
		add("c", domain.KindClass, "p", 0, 0).
		add("attr", domain.KindClassAttribute, "c", 0, 0).
		add("o", domain.KindClass, "", 300, 0).
		connect("rel", "c", "o")

	res := f.do(domain.Delete("p"))

	assert.Equal(t, []string{"o"}, f.state.IDs())
	assert.Len(t, res.Applied, 4)
	assert.Empty(t, res.Rejected)
}

func TestEngine_DeleteKeepsForeignElements(t *testing.T) {
	f := newFixture(t).
		add("a", domain.KindClass, "", 0, 0).
		add("b", domain.KindClass, "", 0, 0)
	x := domain.NewElement("x", domain.KindPackage, "x")
	x.OwnedElements = []string{"b"}
	f.do(domain.Create(x))

	f.do(domain.Delete("x"))
	assert.Equal(t, []string{"a", "b"}, f.state.IDs())

	// A child list naming an element with another owner only cascades to real children.
	f.add("p", domain.KindPackage, "", 0, 0).add("c", domain.KindClass, "p", 0, 0)
	p := f.get("p").Copy()
	p.OwnedElements = append(p.OwnedElements, "a")
	f.state = f.state.Edit(func(tx *domain.Tx) { tx.Put(p) })

	res := f.do(domain.Delete("p"))
	assert.Equal(t, []string{"a", "b"}, f.state.IDs())
	assert.Len(t, res.Applied, 2)
}

func TestEngine_DuplicateAfterRejectedKindChange(t *testing.T) {
	f := newFixture(t).
		add("p", domain.KindClass, "", 0, 0).
		add("c", domain.KindClassAttribute, "p", 0, 0)

	_, err := f.engine.Dispatch(context.Background(), f.state, domain.Change("p", domain.KindActivityActionNode))
	require.ErrorIs(t, err, domain.ErrNotContainer)

	f.do(domain.Duplicate("p", ""))
	clone := f.get("dup-1")
	assert.Equal(t, []string{"dup-2"}, clone.OwnedElements)

	f.do(domain.Delete("dup-1"))
	assert.Equal(t, []string{"c", "p"}, f.state.IDs(), "deleting the copy keeps the original's children")
	assert.Equal(t, []string{"c"}, f.get("p").OwnedElements)
}

func TestEngine_DuplicateDropsHover(t *testing.T) {
	f := newFixture(t).add("a", domain.KindClass, "", 0, 0)
	f.do(domain.Hover("a", false))

	f.do(domain.Duplicate("a", ""))
	assert.True(t, f.get("a").Hovered)
	assert.False(t, f.get("dup-1").Hovered)
	assert.True(t, f.get("dup-1").Selected)
}

func TestEngine_DeleteSelection(t *testing.T) {
	f := newFixture(t).
		add("box", domain.KindPackage, "", 0, 0).
		add("item", domain.KindClass, "box", 0, 0).
		add("keep", domain.KindClass, "", 0, 0)
	f.do(domain.Select("box", false, false))
	f.do(domain.Select("item", true, false))

	res := f.do(domain.Delete(""))

	assert.Equal(t, []string{"keep"}, f.state.IDs())
	require.Len(t, res.Rejected, 1, "item is already gone when its own delete runs")
	assert.Equal(t, "item", res.Rejected[0].Action.ID)
	assert.ErrorIs(t, res.Rejected[0].Err, domain.ErrElementNotFound)
}

func TestEngine_RootRejection(t *testing.T) {
	f := newFixture(t).add("attr-owner", domain.KindClass, "", 0, 0).
		add("attr", domain.KindClassAttribute, "attr-owner", 0, 0)
	state := f.state

	res, err := f.engine.Dispatch(context.Background(), state, domain.Select("ghost", false, false))
	assert.ErrorIs(t, err, domain.ErrElementNotFound)
	assert.Same(t, state, res.State)
	assert.Empty(t, res.Applied)

	f.do(domain.Select("attr-owner", false, false))
	state = f.state
	res, err = f.engine.Dispatch(context.Background(), state, domain.Select("attr", false, false))
	assert.ErrorIs(t, err, domain.ErrNotSelectable)
	assert.Same(t, state, res.State, "a rejected SELECT keeps the current selection")
	assert.Equal(t, []string{"attr-owner"}, res.State.Selection())
}

func TestEngine_CascadeLimit(t *testing.T) {
	f := newFixture(t).
		add("p", domain.KindPackage, "", 0, 0).
		add("c", domain.KindClass, "p", 0, 0)

	limited := runtime.NewEngine(runtime.WithCascadeLimit(2))
	res, err := limited.Dispatch(context.Background(), f.state, domain.Duplicate("p", ""))
	assert.ErrorIs(t, err, domain.ErrCascadeLimit)
	assert.Len(t, res.Applied, 2)
}

func TestEngine_CancelledContext(t *testing.T) {
	f := newFixture(t).add("a", domain.KindClass, "", 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.engine.Dispatch(ctx, f.state, domain.Select("a", false, false))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Same(t, f.state, res.State)
}

func TestEngine_NeverMutatesInput(t *testing.T) {
	f := newFixture(t).
		add("p", domain.KindPackage, "", 0, 0).
		add("c", domain.KindClass, "p", 0, 0)
	before := f.state
	pkg := f.get("p")

	f.do(domain.Duplicate("p", ""))
	f.do(domain.Delete("p"))

	assert.Equal(t, 2, before.Len())
	got, err := before.Lookup("p")
	require.NoError(t, err)
	assert.Same(t, pkg, got)
	assert.Equal(t, []string{"c"}, got.OwnedElements)
	assert.False(t, got.Selected)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var dispatched, applied, rejected int
	var diagrams []string
	hooks := domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.ActionEvent) {
			dispatched++
			diagrams = append(diagrams, e.DiagramID)
		},
		OnApply: func(ctx context.Context, e *domain.ActionEvent) {
			applied++
			assert.Equal(t, domain.EventApply, e.Type)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			rejected++
			assert.Error(t, e.Err)
		},
	}

	f := newFixture(t, runtime.WithLifecycleHooks(hooks)).
		add("box", domain.KindPackage, "", 0, 0).
		add("item", domain.KindClass, "box", 0, 0)
	f.do(domain.Select("box", false, false))
	f.do(domain.Select("item", true, false))

	ctx := domain.WithDiagramID(context.Background(), "d1")
	res, err := f.engine.Dispatch(ctx, f.state, domain.Delete(""))
	require.NoError(t, err)

	assert.Equal(t, 5, dispatched)
	assert.Equal(t, "d1", diagrams[len(diagrams)-1])
	assert.Equal(t, 4+len(res.Applied), applied)
	assert.Equal(t, 1, rejected)
}
