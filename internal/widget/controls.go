package widget

// Border is a container that paints its background behind its children.
type Border struct {
	Widget
}

func (b *Border) Kind() Kind     { return KindBorder }
func (b *Border) Clone() Control { return &Border{Widget: b.RawCopy()} }

// BuildBorder adds a border built from wb.
func BuildBorder(ui *UserInterface, wb *Builder) Handle {
	return ui.AddNode(&Border{Widget: wb.Build()})
}

// StackPanel lays its children out one after another.
type StackPanel struct {
	Widget
}

func (p *StackPanel) Kind() Kind     { return KindStackPanel }
func (p *StackPanel) Clone() Control { return &StackPanel{Widget: p.RawCopy()} }

// BuildStackPanel adds a stack panel built from wb.
func BuildStackPanel(ui *UserInterface, wb *Builder) Handle {
	return ui.AddNode(&StackPanel{Widget: wb.Build()})
}

// Text is a read-only label.
type Text struct {
	Widget
	text string
}

func (t *Text) Kind() Kind     { return KindText }
func (t *Text) Clone() Control { return &Text{Widget: t.RawCopy(), text: t.text} }
func (t *Text) Text() string   { return t.text }

func (t *Text) HandleRoutedMessage(ui *UserInterface, msg *Message) {
	t.Widget.HandleRoutedMessage(ui, msg)
	if msg.Destination != t.handle {
		return
	}
	if data, ok := msg.Data.(SetText); ok {
		t.text = data.Text
	}
}

// BuildText adds a label with the given text.
func BuildText(ui *UserInterface, wb *Builder, text string) Handle {
	return ui.AddNode(&Text{Widget: wb.Build(), text: text})
}

// Button turns a mouse press on itself or its content into a Click.
type Button struct {
	Widget
	content Handle
}

func (b *Button) Kind() Kind      { return KindButton }
func (b *Button) Content() Handle { return b.content }

func (b *Button) Clone() Control {
	return &Button{Widget: b.RawCopy(), content: b.content}
}

func (b *Button) Resolve(m NodeHandleMapping) {
	b.content = m.Optional(b.content)
}

func (b *Button) RemoveRef(h Handle) {
	if b.content == h {
		b.content = None
	}
}

func (b *Button) HandleRoutedMessage(ui *UserInterface, msg *Message) {
	b.Widget.HandleRoutedMessage(ui, msg)
	if _, ok := msg.Data.(MouseDown); !ok || msg.Handled {
		return
	}
	if msg.Destination == b.handle || msg.Destination == b.content {
		ui.Send(b.handle, Click{})
		msg.Handled = true
	}
}

// BuildButton adds a button whose content is a label with the given text.
func BuildButton(ui *UserInterface, wb *Builder, text string) Handle {
	content := BuildText(ui, NewBuilder(), text)
	return ui.AddNode(&Button{Widget: wb.WithChild(content).Build(), content: content})
}

// TextBox is an editable single-line field.
type TextBox struct {
	Widget
	text string
}

func (t *TextBox) Kind() Kind     { return KindTextBox }
func (t *TextBox) Clone() Control { return &TextBox{Widget: t.RawCopy(), text: t.text} }
func (t *TextBox) Text() string   { return t.text }

func (t *TextBox) HandleRoutedMessage(ui *UserInterface, msg *Message) {
	t.Widget.HandleRoutedMessage(ui, msg)
	if msg.Destination != t.handle {
		return
	}
	switch data := msg.Data.(type) {
	case SetText:
		t.text = data.Text
	case TextChanged:
		t.text = data.Text
	}
}

// BuildTextBox adds an editable field holding text.
func BuildTextBox(ui *UserInterface, wb *Builder, text string) Handle {
	return ui.AddNode(&TextBox{Widget: wb.Build(), text: text})
}
