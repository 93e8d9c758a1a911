package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestViewerModel(t *testing.T) {
	t.Run("renders content between header and key help", func(t *testing.T) {
		model := NewModel("grove · /repo", "◯ main\n  ◉ feature/login\n")

		updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		view := updated.(Model).View()

		require.Contains(t, view, "grove · /repo")
		require.Contains(t, view, "feature/login")
		require.Contains(t, view, "scroll up")
		require.Contains(t, view, "scroll down")
		require.Contains(t, view, "quit")
	})

	t.Run("shows a placeholder before the first resize", func(t *testing.T) {
		model := NewModel("title", "content")
		require.Contains(t, model.View(), "loading")
	})

	t.Run("quit key ends the program", func(t *testing.T) {
		model := NewModel("title", "content")
		updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

		_, cmd := updated.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		require.NotNil(t, cmd)
		require.Equal(t, tea.Quit(), cmd())
	})
}
