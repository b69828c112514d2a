package widget

// Payload is the closed set of message bodies understood by the controls in
// this toolkit. Target names the control kind the destination must be;
// KindAny accepts every node.
type Payload interface {
	Target() Kind
}

// Message is a routed event. It is delivered to its destination first and
// then to every ancestor; a handler that consumes it sets Handled so the
// ancestors can leave it alone.
type Message struct {
	Destination Handle
	Data        Payload
	Handled     bool
}

// Generic widget messages.
type (
	Visibility struct{ Visible bool }
	Background struct{ Brush Brush }
	// Remove asks the UI to free the destination subtree.
	Remove     struct{}
	MouseDown  struct{}
	MouseEnter struct{}
	MouseLeave struct{}
)

func (Visibility) Target() Kind { return KindAny }
func (Background) Target() Kind { return KindAny }
func (Remove) Target() Kind     { return KindAny }
func (MouseDown) Target() Kind  { return KindAny }
func (MouseEnter) Target() Kind { return KindAny }
func (MouseLeave) Target() Kind { return KindAny }

// Click is emitted by a button after it is pressed.
type Click struct{}

func (Click) Target() Kind { return KindButton }

// SetText replaces the text of a Text or TextBox without raising
// TextChanged.
type SetText struct{ Text string }

func (SetText) Target() Kind { return KindAny }

// TextChanged carries user edits of a TextBox.
type TextChanged struct{ Text string }

func (TextChanged) Target() Kind { return KindTextBox }

// Tree messages.
type (
	TreeExpand     struct{ Expand bool }
	TreeAddItem    struct{ Item Handle }
	TreeRemoveItem struct{ Item Handle }
	TreeSetItems   struct{ Items []Handle }
	// TreeHighlight is sent by the owning TreeRoot to mark or unmark the
	// tree as the selected one.
	TreeHighlight struct{ Selected bool }
)

func (TreeExpand) Target() Kind     { return KindTree }
func (TreeAddItem) Target() Kind    { return KindTree }
func (TreeRemoveItem) Target() Kind { return KindTree }
func (TreeSetItems) Target() Kind   { return KindTree }
func (TreeHighlight) Target() Kind  { return KindTree }

// TreeRoot messages.
type (
	RootAddItem    struct{ Item Handle }
	RootRemoveItem struct{ Item Handle }
	RootItems      struct{ Items []Handle }
	RootSelected   struct{ Selected Handle }
)

func (RootAddItem) Target() Kind    { return KindTreeRoot }
func (RootRemoveItem) Target() Kind { return KindTreeRoot }
func (RootItems) Target() Kind      { return KindTreeRoot }
func (RootSelected) Target() Kind   { return KindTreeRoot }

// FileBrowser messages.
type (
	BrowserPath             struct{ Path string }
	BrowserSelectionChanged struct{ Path string }
)

func (BrowserPath) Target() Kind             { return KindFileBrowser }
func (BrowserSelectionChanged) Target() Kind { return KindFileBrowser }
