package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	add      key.Binding
	edit     key.Binding
	toggle   key.Binding
	del      key.Binding
	clear    key.Binding
	export   key.Binding
	importJS key.Binding
	help     key.Binding
	quit     key.Binding

	// input modes
	submit key.Binding
	cancel key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		add:      key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit")),
		toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		del:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		importJS: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.add, k.edit, k.toggle, k.del, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.add, k.edit, k.toggle, k.del},
		{k.clear, k.export, k.importJS},
		{k.help, k.quit},
	}
}

// inputKeys is the help shown while a text input has focus.
type inputKeys struct{ keyMap }

func (k inputKeys) ShortHelp() []key.Binding  { return []key.Binding{k.submit, k.cancel} }
func (k inputKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
