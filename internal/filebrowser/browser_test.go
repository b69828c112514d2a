package filebrowser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atomicstack/tmux-popup-browser/internal/tree"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

type fixture struct {
	ui      *widget.UserInterface
	handle  widget.Handle
	browser *FileBrowser
}

// makeTree creates dirs (trailing slash) and files below root.
func makeTree(t *testing.T, root string, entries ...string) {
	t.Helper()
	for _, e := range entries {
		p := filepath.Join(root, filepath.FromSlash(e))
		if e[len(e)-1] == '/' {
			require.NoError(t, os.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func newFixture(t *testing.T, root string, configure func(*Builder)) *fixture {
	t.Helper()
	ui := widget.New()
	b := NewBuilder(widget.NewBuilder()).WithPath(root)
	if configure != nil {
		configure(b)
	}
	h := b.Build(ui)
	ui.Update()
	return &fixture{ui: ui, handle: h, browser: ui.Node(h).(*FileBrowser)}
}

func (f *fixture) root() *tree.TreeRoot {
	return f.ui.Node(f.browser.TreeRoot()).(*tree.TreeRoot)
}

func (f *fixture) find(t *testing.T, path string) (widget.Handle, *tree.Tree) {
	t.Helper()
	h := FindTree(f.ui, f.browser.TreeRoot(), path)
	require.True(t, h.IsSome(), "no tree for %s", path)
	return h, f.ui.Node(h).(*tree.Tree)
}

func (f *fixture) expand(t *testing.T, path string, expand bool) *tree.Tree {
	t.Helper()
	h, tr := f.find(t, path)
	f.ui.Send(h, widget.TreeExpand{Expand: expand})
	f.ui.Update()
	return tr
}

func (f *fixture) childPaths(tr *tree.Tree) []string {
	var out []string
	for _, item := range tr.Items() {
		out = append(out, widget.UserDataOf[string](f.ui.Node(item)))
	}
	return out
}

func (f *fixture) pathText() string {
	return f.ui.Node(f.browser.PathText()).(*widget.TextBox).Text()
}

func TestBuildCreatesCollapsedRootItem(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "a/")
	f := newFixture(t, dir, nil)

	require.Len(t, f.root().Items(), 1)
	_, tr := f.find(t, dir)
	require.False(t, tr.IsExpanded())
	require.Empty(t, tr.Items())
	require.True(t, tr.AlwaysShowExpander(), "non-empty directory pins its expander")
	require.True(t, f.ui.Node(tr.Expander()).Base().Visible())
	require.Equal(t, dir, f.pathText())
	require.Equal(t, dir, f.browser.Path())
	require.Empty(t, f.browser.Selection())
}

func TestExpandEnumeratesSortedChildren(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "zeta.txt", "b/x.txt", "a/", "c.md")
	f := newFixture(t, dir, nil)

	tr := f.expand(t, dir, true)
	require.Equal(t, []string{
		filepath.Join(dir, "a"),
		filepath.Join(dir, "b"),
		filepath.Join(dir, "c.md"),
		filepath.Join(dir, "zeta.txt"),
	}, f.childPaths(tr))

	_, empty := f.find(t, filepath.Join(dir, "a"))
	require.False(t, empty.AlwaysShowExpander())
	require.False(t, f.ui.Node(empty.Expander()).Base().Visible())
	_, full := f.find(t, filepath.Join(dir, "b"))
	require.True(t, full.AlwaysShowExpander())

	label := f.ui.Node(full.Content()).(*widget.Text).Text()
	require.Equal(t, "b", label)
}

func TestRepeatedExpandDoesNotDuplicateChildren(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "one/", "two/")
	f := newFixture(t, dir, nil)
	h, tr := f.find(t, dir)

	f.ui.Send(h, widget.TreeExpand{Expand: true})
	f.ui.Send(h, widget.TreeExpand{Expand: true})
	f.ui.Update()
	require.Len(t, tr.Items(), 2)

	f.ui.Send(h, widget.TreeExpand{Expand: true})
	f.ui.Update()
	require.Len(t, tr.Items(), 2)
	require.Equal(t, tr.Items(), f.ui.Children(tr.Panel()))
}

func TestCollapseEvictsWholeSubtree(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "a/b/c/d.txt")
	f := newFixture(t, dir, nil)

	f.expand(t, dir, true)
	f.expand(t, filepath.Join(dir, "a"), true)
	deepest := f.expand(t, filepath.Join(dir, "a", "b"), true)
	require.Len(t, deepest.Items(), 1)
	before := f.ui.Len()

	root := f.expand(t, dir, false)
	require.Empty(t, root.Items())
	require.Less(t, f.ui.Len(), before)
	require.True(t, FindTree(f.ui, f.browser.TreeRoot(), filepath.Join(dir, "a", "b")) != widget.None)
	h, _ := f.find(t, filepath.Join(dir, "a", "b"))
	require.Equal(t, f.root().Items()[0], h, "only the root item is left to match")

	again := f.expand(t, dir, true)
	require.Equal(t, []string{filepath.Join(dir, "a")}, f.childPaths(again))
}

func TestRoundTripSelectionSync(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "b/")
	f := newFixture(t, dir, nil)
	f.expand(t, dir, true)
	target := filepath.Join(dir, "b")

	f.ui.Send(f.handle, widget.BrowserSelectionChanged{Path: target})
	f.ui.Update()

	require.Equal(t, target, f.browser.Selection())
	require.Equal(t, target, f.pathText())
	h, tr := f.find(t, target)
	require.True(t, tr.IsSelected())
	require.Equal(t, h, f.root().Selected())
	require.Zero(t, f.ui.Pending())
}

func TestSelectionChangedForUnknownPathIsDropped(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	f := newFixture(t, dir, nil)

	f.ui.Send(f.handle, widget.BrowserSelectionChanged{Path: other})
	f.ui.Update()
	require.Empty(t, f.browser.Selection())
	require.Equal(t, dir, f.pathText())
	require.True(t, f.root().Selected().IsNone())
}

func TestSelectionOfUnexpandedDescendantFallsBackToAncestor(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "b/deep/")
	f := newFixture(t, dir, nil)
	f.expand(t, dir, true)
	deep := filepath.Join(dir, "b", "deep")

	f.ui.Send(f.handle, widget.BrowserSelectionChanged{Path: deep})
	f.ui.Update()

	ancestor, tr := f.find(t, filepath.Join(dir, "b"))
	require.True(t, tr.IsSelected())
	require.Equal(t, ancestor, f.root().Selected())
	require.Equal(t, filepath.Join(dir, "b"), f.browser.Selection(), "selection settles on the highlighted tree")
	require.Equal(t, filepath.Join(dir, "b"), f.pathText())
}

func TestPrefixLookupPrefersExactPath(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "b/", "bb/")
	f := newFixture(t, dir, nil)
	f.expand(t, dir, true)

	b, _ := f.find(t, filepath.Join(dir, "b"))
	bb, _ := f.find(t, filepath.Join(dir, "bb"))
	require.NotEqual(t, b, bb)
	require.Equal(t, b, FindTree(f.ui, f.browser.TreeRoot(), filepath.Join(dir, "b")))
	require.Equal(t, bb, FindTree(f.ui, f.browser.TreeRoot(), filepath.Join(dir, "bb")))
	require.Equal(t, b, FindTree(f.ui, f.browser.TreeRoot(), filepath.Join(dir, "b")+string(filepath.Separator)))
	require.Equal(t, b, FindTree(f.ui, f.browser.TreeRoot(), filepath.Join(dir, "b", "missing")))

	rootItem := f.root().Items()[0]
	require.Equal(t, rootItem, FindTree(f.ui, f.browser.TreeRoot(), filepath.Join(dir, "bbb")),
		"a textual prefix sibling resolves to the common parent")
	require.True(t, FindTree(f.ui, f.browser.TreeRoot(), "").IsNone())
}

func TestFilterExcludesHiddenEntries(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, ".git/HEAD", "src/main.go")
	f := newFixture(t, dir, func(b *Builder) { b.WithFilter(HiddenFilter()) })

	tr := f.expand(t, dir, true)
	require.Equal(t, []string{filepath.Join(dir, "src")}, f.childPaths(tr))
}

func TestFilterIsSharedAndCalledOncePerEntry(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "a/", "b/", "c.txt")
	calls := 0
	counting := FilterFunc(func(string) bool {
		calls++
		return calls%2 == 1
	})
	f := newFixture(t, dir, func(b *Builder) { b.WithFilter(counting) })

	tr := f.expand(t, dir, true)
	require.Equal(t, 3, calls)
	require.Equal(t, []string{filepath.Join(dir, "a"), filepath.Join(dir, "c.txt")}, f.childPaths(tr))

	dup := f.ui.CopyNode(f.handle)
	copied := f.ui.Node(dup).(*FileBrowser)
	copied.filter.Accept("x")
	require.Equal(t, 4, calls, "clones share the same filter instance")
}

func TestEnumerationFailureYieldsNoChildren(t *testing.T) {
	failing := ListerFunc(func(dir string) ([]Entry, error) {
		return nil, errors.New("permission denied")
	})
	f := newFixture(t, "/nowhere", func(b *Builder) { b.WithLister(failing) })

	tr := f.expand(t, "/nowhere", true)
	require.True(t, tr.IsExpanded())
	require.Empty(t, tr.Items())
	require.False(t, f.ui.Node(tr.Expander()).Base().Visible())
}

func TestTextEditSelectsMatchingTree(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "src/")
	f := newFixture(t, dir, nil)
	f.expand(t, dir, true)
	target := filepath.Join(dir, "src")

	f.ui.Send(f.browser.PathText(), widget.TextChanged{Text: target})
	f.ui.Update()

	_, tr := f.find(t, target)
	require.True(t, tr.IsSelected())
	require.Equal(t, target, f.browser.Selection())
	require.Equal(t, target, f.pathText())

	f.ui.Send(f.browser.PathText(), widget.TextChanged{Text: "/definitely/not/here"})
	f.ui.Update()
	require.Equal(t, target, f.browser.Selection())
	require.Equal(t, "/definitely/not/here", f.pathText())
}

func TestMouseDownOnTreeUpdatesSelection(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "docs/")
	f := newFixture(t, dir, nil)
	f.expand(t, dir, true)
	_, tr := f.find(t, filepath.Join(dir, "docs"))

	f.ui.Send(tr.Content(), widget.MouseDown{})
	f.ui.Update()

	require.True(t, tr.IsSelected())
	require.Equal(t, filepath.Join(dir, "docs"), f.browser.Selection())
	require.Equal(t, filepath.Join(dir, "docs"), f.pathText())
}

func TestPathMessageRebuildsTree(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	makeTree(t, first, "a/")
	makeTree(t, second, "z/")
	f := newFixture(t, first, nil)
	f.expand(t, first, true)
	f.ui.Send(f.handle, widget.BrowserSelectionChanged{Path: filepath.Join(first, "a")})
	f.ui.Update()
	old := f.root().Items()[0]

	f.ui.Send(f.handle, widget.BrowserPath{Path: second})
	f.ui.Update()

	require.False(t, f.ui.IsValid(old))
	require.Len(t, f.root().Items(), 1)
	require.Equal(t, second, f.browser.Path())
	require.Empty(t, f.browser.Selection())
	require.Equal(t, second, f.pathText(), "path field follows the new root")
	require.True(t, f.root().Selected().IsNone())
	_, tr := f.find(t, second)
	require.False(t, tr.IsExpanded())
	require.True(t, FindTree(f.ui, f.browser.TreeRoot(), first).IsNone())
}

func TestCopyNodeResolvesBrowserParts(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, dir, nil)

	dup := f.ui.CopyNode(f.handle)
	cp := f.ui.Node(dup).(*FileBrowser)
	require.NotEqual(t, f.browser.TreeRoot(), cp.TreeRoot())
	require.NotEqual(t, f.browser.PathText(), cp.PathText())
	require.IsType(t, &tree.TreeRoot{}, f.ui.Node(cp.TreeRoot()))
	require.IsType(t, &widget.TextBox{}, f.ui.Node(cp.PathText()))

	raw := f.browser.Clone().(*FileBrowser)
	require.Panics(t, func() {
		raw.Resolve(widget.NodeHandleMapping{f.browser.TreeRoot(): cp.TreeRoot()})
	})
}

func TestRemovingPartsClearsBrowserHandles(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, dir, nil)
	root, text := f.browser.TreeRoot(), f.browser.PathText()

	f.ui.Send(root, widget.Remove{})
	f.ui.Send(text, widget.Remove{})
	f.ui.Update()

	require.False(t, f.ui.IsValid(root))
	require.False(t, f.ui.IsValid(text))
	require.True(t, f.browser.TreeRoot().IsNone())
	require.True(t, f.browser.PathText().IsNone())
}

func TestForeignTreeSelectionIsNotForwarded(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, dir, "b/")
	f := newFixture(t, dir, nil)
	f.expand(t, dir, true)
	stray := tree.NewBuilder(widget.NewBuilder().WithUserData(filepath.Join(dir, "b"))).Build(f.ui)

	f.ui.Send(f.browser.TreeRoot(), widget.RootSelected{Selected: stray})
	f.ui.Update()

	require.True(t, f.root().Selected().IsNone())
	require.Empty(t, f.browser.Selection())
	require.Equal(t, dir, f.pathText())
}
