// Package view holds the screens of the terminal front end.
package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel tracks the terminal size for a screen.
type CommonModel struct {
	Width  int
	Height int
}

func (c *CommonModel) resize(msg tea.WindowSizeMsg) {
	c.Width, c.Height = msg.Width, msg.Height
}

// BackMsg returns to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	_ View = SyncModel{}
	_ View = RunsModel{}
)
