package cli

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickwall/pkg/focus"
	"github.com/matzehuels/brickwall/pkg/gallery"
	"github.com/matzehuels/brickwall/pkg/wall"
)

// focusCommand creates the focus command: an interactive picker for an
// item's focus cell.
func (c *CLI) focusCommand() *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "focus [gallery.toml] [item-id]",
		Short: "Pick the focus cell of a gallery item",
		Long: `Pick the focus cell of a gallery item.

The item is shown as a grid of focus cells (the manifest's focus_points).
Move with the arrow keys or the mouse, select with space or a click, and
press enter to save the selection to the manifest. The focus cell is the
part of the image kept visible when the image is cropped to its slot.

Use --set X,Y to write a cell without the interactive picker.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFocusArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, id := args[0], args[1]
			g, err := gallery.ReadFile(path)
			if err != nil {
				return err
			}
			item, err := g.Item(id)
			if err != nil {
				return err
			}

			var sel focus.Selection
			if set != "" {
				if _, err := fmt.Sscanf(set, "%d,%d", &sel.X, &sel.Y); err != nil {
					return fmt.Errorf("--set %q: want X,Y", set)
				}
			} else {
				var ok bool
				sel, ok, err = runFocusPicker(g.Layout.FocusPoints, item)
				if err != nil {
					return err
				}
				if !ok {
					printInfo(c.Out, "Focus unchanged")
					return nil
				}
			}

			if err := g.SetFocus(id, sel.X, sel.Y); err != nil {
				return err
			}
			if err := gallery.WriteFile(g, path); err != nil {
				return err
			}
			printSuccess(c.Out, "Focus of %s set to (%d,%d)", id, sel.X, sel.Y)
			printFile(c.Out, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "set the focus cell directly as X,Y")
	return cmd
}

// runFocusPicker runs the picker. ok is false when the user quit without
// saving.
func runFocusPicker(points wall.FocusPoints, item wall.Item) (focus.Selection, bool, error) {
	m := newFocusModel(points, item)
	p := tea.NewProgram(m, tea.WithMouseCellMotion(), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return focus.Selection{}, false, err
	}
	fm := final.(focusModel)
	return fm.grid.Selection(), fm.saved, nil
}

// =============================================================================
// focusModel - Interactive focus grid
// =============================================================================

// Picker styles
var (
	focusSelectedStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	focusHoveredStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	focusUnselectedStyle = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	focusCellCols = 6 // terminal columns per focus cell
	focusHeader   = 2 // title line and blank line above the grid
)

type focusKeyMap struct {
	Left, Right, Up, Down key.Binding
	Select, Save, Quit    key.Binding
}

func (k focusKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Select, k.Save, k.Quit}
}

func (k focusKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var focusKeys = focusKeyMap{
	Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "save")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// focusModel is the bubbletea model for the focus picker.
type focusModel struct {
	item  wall.Item
	grid  *focus.Grid
	keys  focusKeyMap
	help  help.Model
	cellW int // terminal columns per cell
	cellH int // terminal lines per cell
	saved bool
}

func newFocusModel(points wall.FocusPoints, item wall.Item) focusModel {
	grid := focus.NewGrid(points, item)
	p := grid.Points()

	// Terminal cells are roughly twice as tall as wide.
	lines := float64(focusCellCols*p.X) * item.Height / item.Width / 2
	cellH := max(1, int(math.Round(lines/float64(p.Y))))

	return focusModel{
		item:  item,
		grid:  grid,
		keys:  focusKeys,
		help:  help.New(),
		cellW: focusCellCols,
		cellH: cellH,
	}
}

func (m focusModel) Init() tea.Cmd {
	return nil
}

func (m focusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.grid.Move(focus.Left)
		case key.Matches(msg, m.keys.Right):
			m.grid.Move(focus.Right)
		case key.Matches(msg, m.keys.Up):
			m.grid.Move(focus.Up)
		case key.Matches(msg, m.keys.Down):
			m.grid.Move(focus.Down)
		case key.Matches(msg, m.keys.Select):
			m.grid.SelectHovered()
		case key.Matches(msg, m.keys.Save):
			m.grid.SelectHovered()
			m.saved = true
			return m, tea.Quit
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

// handleMouse maps terminal coordinates onto grid cells.
func (m focusModel) handleMouse(msg tea.MouseMsg) {
	p := m.grid.Points()
	w := float64(m.cellW * p.X)
	h := float64(m.cellH * p.Y)

	x, y, ok := m.grid.At(float64(msg.X), float64(msg.Y-focusHeader), w, h)
	if !ok {
		if hx, hy, hovered := m.grid.Hover(); hovered {
			m.grid.PointerLeave(hx, hy)
		}
		return
	}
	if hx, hy, hovered := m.grid.Hover(); hovered && (hx != x || hy != y) {
		m.grid.PointerLeave(hx, hy)
	}
	m.grid.PointerEnter(x, y)

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		_, _ = m.grid.Select(x, y)
	}
}

func (m focusModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Focus · %s (%g×%g)", m.item.ID, m.item.Width, m.item.Height)
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n\n")

	p := m.grid.Points()
	w := float64(m.cellW * p.X)
	h := float64(m.cellH * p.Y)
	for y := range p.Y {
		cells := make([]string, 0, p.X)
		for x := range p.X {
			r := m.grid.Cell(x, y, w, h)
			cells = append(cells, m.renderCell(x, y, int(r.Width), int(r.Height)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	sel := m.grid.Selection()
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("selected (%d,%d)", sel.X, sel.Y)))
	if hx, hy, ok := m.grid.Hover(); ok {
		b.WriteString(StyleDim.Render(fmt.Sprintf(" · cursor (%d,%d)", hx, hy)))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m focusModel) renderCell(x, y, w, h int) string {
	fill, style := "·", focusUnselectedStyle
	switch m.grid.State(x, y) {
	case focus.Selected:
		fill, style = "█", focusSelectedStyle
	case focus.Hovered:
		fill, style = "▒", focusHoveredStyle
	}
	line := strings.Repeat(fill, max(w, 1))
	lines := make([]string, max(h, 1))
	for i := range lines {
		lines[i] = line
	}
	return style.Render(strings.Join(lines, "\n"))
}
