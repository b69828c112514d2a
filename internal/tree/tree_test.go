package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

func buildLeaf(ui *widget.UserInterface, label string) widget.Handle {
	content := widget.BuildText(ui, widget.NewBuilder(), label)
	return NewBuilder(widget.NewBuilder().WithName(label)).WithContent(content).Build(ui)
}

func treeAt(t *testing.T, ui *widget.UserInterface, h widget.Handle) *Tree {
	t.Helper()
	tr, ok := ui.Node(h).(*Tree)
	require.True(t, ok, "node %s is not a tree", h)
	return tr
}

func rootAt(t *testing.T, ui *widget.UserInterface, h widget.Handle) *TreeRoot {
	t.Helper()
	r, ok := ui.Node(h).(*TreeRoot)
	require.True(t, ok, "node %s is not a tree root", h)
	return r
}

func requireMirrored(t *testing.T, ui *widget.UserInterface, panel widget.Handle, items []widget.Handle) {
	t.Helper()
	children := ui.Children(panel)
	if len(items) == 0 {
		require.Empty(t, children)
		return
	}
	require.Equal(t, items, children)
}

func TestBuilderDefaults(t *testing.T) {
	ui := widget.New()
	h := buildLeaf(ui, "a")
	tr := treeAt(t, ui, h)

	require.True(t, tr.IsExpanded())
	require.False(t, tr.IsSelected())
	require.False(t, tr.AlwaysShowExpander())
	require.Empty(t, tr.Items())
	require.False(t, ui.Node(tr.Expander()).Base().Visible(), "leaf expander starts hidden")
	require.True(t, ui.Node(tr.Panel()).Base().Visible())
	require.Equal(t, DefaultNormalBrush, ui.Node(tr.ItemBackground()).Base().Background())
	require.Contains(t, ui.Children(tr.ItemBackground()), tr.Content())
	require.Equal(t, DefaultSelectedBrush, widget.Solid(140, 140, 140))
	require.Equal(t, DefaultHoveredBrush, widget.Solid(100, 100, 100))
	require.True(t, DefaultNormalBrush.IsTransparent())
}

func TestExpandTogglesPanelAndExpanderLabel(t *testing.T) {
	ui := widget.New()
	child := buildLeaf(ui, "child")
	h := NewBuilder(widget.NewBuilder()).WithExpanded(false).WithItems(child).Build(ui)
	tr := treeAt(t, ui, h)
	label := ui.Node(tr.Expander()).(*widget.Button).Content()

	require.Equal(t, "+", ui.Node(label).(*widget.Text).Text())
	require.False(t, ui.Node(tr.Panel()).Base().Visible())

	ui.Send(h, widget.TreeExpand{Expand: true})
	ui.ProcessMessages()
	require.True(t, tr.IsExpanded())
	require.True(t, ui.Node(tr.Panel()).Base().Visible())
	require.Equal(t, "-", ui.Node(label).(*widget.Text).Text())

	ui.Send(h, widget.TreeExpand{Expand: true})
	ui.ProcessMessages()
	require.True(t, tr.IsExpanded())
	require.Equal(t, []widget.Handle{child}, tr.Items(), "a second expand must not touch items")

	ui.Send(h, widget.TreeExpand{Expand: false})
	ui.ProcessMessages()
	require.False(t, tr.IsExpanded())
	require.False(t, ui.Node(tr.Panel()).Base().Visible())
	require.Equal(t, "+", ui.Node(label).(*widget.Text).Text())
}

func TestClickingExpanderToggles(t *testing.T) {
	ui := widget.New()
	h := NewBuilder(widget.NewBuilder()).WithItems(buildLeaf(ui, "c")).Build(ui)
	NewRootBuilder(widget.NewBuilder()).WithItems(h).Build(ui)
	tr := treeAt(t, ui, h)

	ui.Send(tr.Expander(), widget.MouseDown{})
	ui.ProcessMessages()
	require.False(t, tr.IsExpanded())
	require.False(t, tr.IsSelected(), "pressing the expander must not select the item")

	ui.Send(tr.Expander(), widget.MouseDown{})
	ui.ProcessMessages()
	require.True(t, tr.IsExpanded())
}

func TestItemMutationsMirrorPanel(t *testing.T) {
	ui := widget.New()
	h := buildLeaf(ui, "parent")
	tr := treeAt(t, ui, h)
	a, b, c := buildLeaf(ui, "a"), buildLeaf(ui, "b"), buildLeaf(ui, "c")

	for _, item := range []widget.Handle{a, b, c} {
		ui.Send(h, widget.TreeAddItem{Item: item})
	}
	ui.ProcessMessages()
	require.Equal(t, []widget.Handle{a, b, c}, tr.Items())
	requireMirrored(t, ui, tr.Panel(), tr.Items())

	ui.Send(h, widget.TreeRemoveItem{Item: b})
	ui.ProcessMessages()
	require.Equal(t, []widget.Handle{a, c}, tr.Items())
	require.False(t, ui.IsValid(b))
	requireMirrored(t, ui, tr.Panel(), tr.Items())

	ui.Send(h, widget.TreeRemoveItem{Item: b})
	ui.ProcessMessages()
	require.Equal(t, []widget.Handle{a, c}, tr.Items(), "removing an absent item is a no-op")

	d := buildLeaf(ui, "d")
	ui.Send(h, widget.TreeSetItems{Items: []widget.Handle{c, d}})
	ui.ProcessMessages()
	require.Equal(t, []widget.Handle{c, d}, tr.Items())
	require.False(t, ui.IsValid(a))
	require.True(t, ui.IsValid(c), "items kept by SetItems survive")
	requireMirrored(t, ui, tr.Panel(), tr.Items())

	ui.Send(h, widget.TreeSetItems{})
	ui.ProcessMessages()
	require.Empty(t, tr.Items())
	require.False(t, ui.IsValid(c))
	require.False(t, ui.IsValid(d))
	requireMirrored(t, ui, tr.Panel(), tr.Items())
}

func TestArrangeTracksExpanderVisibility(t *testing.T) {
	ui := widget.New()
	h := buildLeaf(ui, "parent")
	tr := treeAt(t, ui, h)
	expander := tr.Expander()

	ui.Update()
	require.False(t, ui.Node(expander).Base().Visible())

	ui.Send(h, widget.TreeAddItem{Item: buildLeaf(ui, "child")})
	ui.Update()
	require.True(t, ui.Node(expander).Base().Visible())

	ui.Update()
	require.True(t, ui.Node(expander).Base().Visible(), "arrange is idempotent")

	ui.Send(h, widget.TreeSetItems{})
	ui.Update()
	require.False(t, ui.Node(expander).Base().Visible())
}

func TestAlwaysShowExpanderOverridesArrange(t *testing.T) {
	ui := widget.New()
	h := NewBuilder(widget.NewBuilder()).WithAlwaysShowExpander(true).Build(ui)
	tr := treeAt(t, ui, h)
	ui.Update()
	require.True(t, ui.Node(tr.Expander()).Base().Visible())
}

func TestHoverOnlyRecoloursUnselectedItems(t *testing.T) {
	ui := widget.New()
	h := buildLeaf(ui, "a")
	root := NewRootBuilder(widget.NewBuilder()).WithItems(h).Build(ui)
	tr := treeAt(t, ui, h)
	bg := tr.ItemBackground()

	ui.Send(bg, widget.MouseEnter{})
	ui.ProcessMessages()
	require.Equal(t, DefaultHoveredBrush, ui.Node(bg).Base().Background())

	ui.Send(bg, widget.MouseLeave{})
	ui.ProcessMessages()
	require.Equal(t, DefaultNormalBrush, ui.Node(bg).Base().Background())

	ui.Send(root, widget.RootSelected{Selected: h})
	ui.ProcessMessages()
	require.Equal(t, DefaultSelectedBrush, ui.Node(bg).Base().Background())

	ui.Send(bg, widget.MouseEnter{})
	ui.Send(bg, widget.MouseLeave{})
	ui.ProcessMessages()
	require.Equal(t, DefaultSelectedBrush, ui.Node(bg).Base().Background())
}

func TestHoverIsClaimedByInnermostTree(t *testing.T) {
	ui := widget.New()
	inner := buildLeaf(ui, "inner")
	outer := NewBuilder(widget.NewBuilder()).WithItems(inner).Build(ui)
	NewRootBuilder(widget.NewBuilder()).WithItems(outer).Build(ui)
	innerBg := treeAt(t, ui, inner).ItemBackground()
	outerBg := treeAt(t, ui, outer).ItemBackground()

	ui.Send(innerBg, widget.MouseEnter{})
	ui.ProcessMessages()
	require.Equal(t, DefaultHoveredBrush, ui.Node(innerBg).Base().Background())
	require.Equal(t, DefaultNormalBrush, ui.Node(outerBg).Base().Background())
}

func TestRemoveRefForgetsStructuralHandles(t *testing.T) {
	ui := widget.New()
	h := buildLeaf(ui, "a")
	tr := treeAt(t, ui, h)
	content := tr.Content()

	ui.Send(content, widget.Remove{})
	ui.ProcessMessages()
	require.True(t, tr.Content().IsNone())
	require.True(t, tr.Expander().IsSome())
}

func TestCopyNodeResolvesTreeParts(t *testing.T) {
	ui := widget.New()
	child := buildLeaf(ui, "child")
	h := NewBuilder(widget.NewBuilder().WithUserData("/src")).WithItems(child).Build(ui)
	src := treeAt(t, ui, h)

	dup := ui.CopyNode(h)
	cp := treeAt(t, ui, dup)

	for _, pair := range [][2]widget.Handle{
		{src.Expander(), cp.Expander()},
		{src.Content(), cp.Content()},
		{src.Panel(), cp.Panel()},
		{src.ItemBackground(), cp.ItemBackground()},
	} {
		if pair[0].IsNone() {
			require.True(t, pair[1].IsNone())
			continue
		}
		require.NotEqual(t, pair[0], pair[1])
		require.True(t, ui.IsValid(pair[1]))
	}
	require.Len(t, cp.Items(), 1)
	require.NotEqual(t, child, cp.Items()[0])
	requireMirrored(t, ui, cp.Panel(), cp.Items())
	require.Equal(t, "/src", widget.UserDataOf[string](cp))
}

func TestResolvePanicsWithoutRequiredHandles(t *testing.T) {
	ui := widget.New()
	h := buildLeaf(ui, "a")
	tr := treeAt(t, ui, h)
	raw := tr.Clone().(*Tree)

	mapping := widget.NodeHandleMapping{
		tr.Expander():       tr.Expander(),
		tr.ItemBackground(): tr.ItemBackground(),
	}
	require.Panics(t, func() { raw.Resolve(mapping) })

	mapping[tr.Panel()] = tr.Panel()
	require.NotPanics(t, func() { raw.Resolve(mapping) })
}

func TestAddingAnExistingItemMovesIt(t *testing.T) {
	ui := widget.New()
	h := buildLeaf(ui, "parent")
	tr := treeAt(t, ui, h)
	a, b := buildLeaf(ui, "a"), buildLeaf(ui, "b")

	ui.Send(h, widget.TreeAddItem{Item: a})
	ui.Send(h, widget.TreeAddItem{Item: b})
	ui.Send(h, widget.TreeAddItem{Item: a})
	ui.ProcessMessages()

	require.Equal(t, []widget.Handle{b, a}, tr.Items())
	requireMirrored(t, ui, tr.Panel(), tr.Items())

	ui.Send(h, widget.TreeAddItem{Item: a})
	ui.ProcessMessages()
	require.Equal(t, []widget.Handle{b, a}, tr.Items())
	requireMirrored(t, ui, tr.Panel(), tr.Items())
}
