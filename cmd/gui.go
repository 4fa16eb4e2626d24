package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modshelf/catalog"
	"modshelf/config"
	"modshelf/db"
	"modshelf/logger"
	"modshelf/scanner"
	"modshelf/ui"
)

// guiCmd represents the gui command
var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Launch the interactive browser",
	Long:  `Launch an interactive TUI to browse categories, entities and mods, and toggle mods on and off.`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg := bootstrap(".")
		runGUI(cfg)
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

// browse levels
const (
	levelCategories = iota
	levelEntities
	levelAssets
	levelPresets
)

// Model represents the state of the browser TUI
type Model struct {
	cfg  config.Config
	base string

	level         int
	selectedIndex int
	loading       bool
	error         string
	message       string

	categories []db.Category
	entities   []catalog.EntityWithCount
	assets     []scanner.AssetState
	presets    []db.Preset

	// Breadcrumb state
	currentCategory db.Category
	currentEntity   catalog.EntityWithCount

	width        int
	height       int
	spinnerFrame int
}

// Message types
type categoriesLoadedMsg []db.Category

type entitiesLoadedMsg []catalog.EntityWithCount

type assetsLoadedMsg []scanner.AssetState

type presetsLoadedMsg []db.Preset

type presetAppliedMsg string

type toggledMsg struct {
	index   int
	enabled bool
	name    string
}

type errorMsg string

type spinnerTickMsg struct{}

type clearMessageMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Initialize the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCategories(),
		tickSpinner(),
	)
}

func tickSpinner() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case categoriesLoadedMsg:
		m.categories = msg
		m.level = levelCategories
		m.selectedIndex = 0
		m.loading = false
	case entitiesLoadedMsg:
		m.entities = msg
		m.level = levelEntities
		m.selectedIndex = 0
		m.loading = false
	case assetsLoadedMsg:
		m.assets = msg
		m.level = levelAssets
		m.selectedIndex = 0
		m.loading = false
	case presetsLoadedMsg:
		m.presets = msg
		m.level = levelPresets
		m.selectedIndex = 0
		m.loading = false
	case presetAppliedMsg:
		m.loading = false
		m.message = string(msg)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearMessageMsg{}
		})
	case toggledMsg:
		if msg.index < len(m.assets) {
			m.assets[msg.index].IsEnabled = msg.enabled
		}
		m.message = fmt.Sprintf("%s is now %s", msg.name, ui.StateLabel(msg.enabled))
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearMessageMsg{}
		})
	case spinnerTickMsg:
		return m.handleSpinnerTick()
	case errorMsg:
		m.error = string(msg)
		m.loading = false
	case clearMessageMsg:
		m.message = ""
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "down", "j":
		if m.selectedIndex < m.rowCount()-1 {
			m.selectedIndex++
		}
	case "enter", "l", "right":
		return m.descend()
	case "esc", "backspace", "h", "left":
		return m.ascend()
	case " ":
		if m.level == levelAssets && len(m.assets) > 0 {
			return m, m.toggleSelected()
		}
	case "p":
		if m.level != levelPresets {
			m.loading = true
			return m, tea.Batch(m.loadPresets(), tickSpinner())
		}
	}
	return m, nil
}

func (m *Model) rowCount() int {
	switch m.level {
	case levelCategories:
		return len(m.categories)
	case levelEntities:
		return len(m.entities)
	case levelAssets:
		return len(m.assets)
	default:
		return len(m.presets)
	}
}

func (m *Model) descend() (tea.Model, tea.Cmd) {
	switch m.level {
	case levelCategories:
		if m.selectedIndex < len(m.categories) {
			m.currentCategory = m.categories[m.selectedIndex]
			m.loading = true
			return m, tea.Batch(m.loadEntities(m.currentCategory.Slug), tickSpinner())
		}
	case levelEntities:
		if m.selectedIndex < len(m.entities) {
			m.currentEntity = m.entities[m.selectedIndex]
			m.loading = true
			return m, tea.Batch(m.loadAssets(m.currentEntity.Slug), tickSpinner())
		}
	case levelPresets:
		if m.selectedIndex < len(m.presets) {
			m.loading = true
			return m, tea.Batch(m.applyPreset(m.presets[m.selectedIndex]), tickSpinner())
		}
	}
	return m, nil
}

func (m *Model) ascend() (tea.Model, tea.Cmd) {
	switch m.level {
	case levelEntities:
		m.loading = true
		return m, tea.Batch(m.loadCategories(), tickSpinner())
	case levelAssets:
		m.loading = true
		return m, tea.Batch(m.loadEntities(m.currentCategory.Slug), tickSpinner())
	case levelPresets:
		m.loading = true
		return m, tea.Batch(m.loadCategories(), tickSpinner())
	}
	return m, nil
}

func (m *Model) handleSpinnerTick() (tea.Model, tea.Cmd) {
	m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
	if m.loading {
		return m, tickSpinner()
	}
	return m, nil
}

// Data loading commands

func (m Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		categories, err := catalog.ListCategories(db.DB)
		if err != nil {
			logger.Log.Errorw("Failed to load categories", zap.Error(err))
			return errorMsg(fmt.Sprintf("Failed to load categories: %v", err))
		}
		return categoriesLoadedMsg(categories)
	}
}

func (m Model) loadEntities(categorySlug string) tea.Cmd {
	return func() tea.Msg {
		entities, err := catalog.EntitiesByCategory(db.DB, categorySlug)
		if err != nil {
			logger.Log.Errorw("Failed to load entities", zap.Error(err))
			return errorMsg(fmt.Sprintf("Failed to load entities: %v", err))
		}
		// Entities with mods first, then the rest alphabetically.
		sort.SliceStable(entities, func(i, j int) bool {
			if (entities[i].ModCount > 0) != (entities[j].ModCount > 0) {
				return entities[i].ModCount > 0
			}
			return strings.ToLower(entities[i].Name) < strings.ToLower(entities[j].Name)
		})
		return entitiesLoadedMsg(entities)
	}
}

func (m Model) loadAssets(entitySlug string) tea.Cmd {
	return func() tea.Msg {
		assets, err := scanner.ListAssets(db.DB, m.base, entitySlug)
		if err != nil {
			logger.Log.Errorw("Failed to load mods", zap.Error(err))
			return errorMsg(fmt.Sprintf("Failed to load mods: %v", err))
		}
		return assetsLoadedMsg(assets)
	}
}

func (m Model) loadPresets() tea.Cmd {
	return func() tea.Msg {
		presets, err := catalog.ListPresets(db.DB)
		if err != nil {
			logger.Log.Errorw("Failed to load presets", zap.Error(err))
			return errorMsg(fmt.Sprintf("Failed to load presets: %v", err))
		}
		return presetsLoadedMsg(presets)
	}
}

func (m Model) applyPreset(preset db.Preset) tea.Cmd {
	return func() tea.Msg {
		summary, err := scanner.ApplyPreset(db.DB, m.base, &preset, nil)
		if err != nil {
			logger.Log.Errorw("Failed to apply preset", zap.String("preset", preset.Name), zap.Error(err))
			return errorMsg(fmt.Sprintf("Failed to apply %s: %v", preset.Name, err))
		}
		return presetAppliedMsg(fmt.Sprintf("%s: %s", preset.Name, summary.String()))
	}
}

func (m Model) toggleSelected() tea.Cmd {
	index := m.selectedIndex
	asset := m.assets[index]
	return func() tea.Msg {
		enabled, err := scanner.Toggle(m.base, asset.FolderName)
		if err != nil {
			logger.Log.Errorw("Toggle failed", zap.String("mod", asset.Name), zap.Error(err))
			return errorMsg(fmt.Sprintf("Toggle failed: %v", err))
		}
		return toggledMsg{index: index, enabled: enabled, name: asset.Name}
	}
}

// View renders the UI
func (m Model) View() string {
	if m.loading {
		return fmt.Sprintf("\n %s Loading...\n", spinnerFrames[m.spinnerFrame])
	}
	if m.error != "" {
		return ui.ErrorStyle.Render("Error: "+m.error) + "\n"
	}

	var output string
	output += m.renderBreadcrumb() + "\n"
	output += m.renderHeader() + "\n"

	switch m.level {
	case levelCategories:
		for i, c := range m.categories {
			output += m.renderRow(i, fmt.Sprintf("%-24s %s", ui.Truncate(c.Name, 22), ui.DimStyle.Render(c.Slug))) + "\n"
		}
	case levelEntities:
		for i, e := range m.entities {
			output += m.renderRow(i, fmt.Sprintf("%-28s %4d mods", ui.Truncate(e.Name, 26), e.ModCount)) + "\n"
		}
	case levelAssets:
		if len(m.assets) == 0 {
			output += ui.DimStyle.Render("  (no mods)") + "\n"
		}
		for i, a := range m.assets {
			output += m.renderRow(i, fmt.Sprintf("%-36s %s", ui.Truncate(a.Name, 34), ui.StateLabel(a.IsEnabled))) + "\n"
		}
	case levelPresets:
		if len(m.presets) == 0 {
			output += ui.DimStyle.Render("  (no presets saved)") + "\n"
		}
		for i, p := range m.presets {
			marker := "  "
			if p.IsFavorite {
				marker = ui.WarnStyle.Render("★ ")
			}
			output += m.renderRow(i, marker+ui.Truncate(p.Name, 34)) + "\n"
		}
	}

	output += "\n" + m.renderFooter()
	if m.message != "" {
		output += "\n" + ui.SuccessStyle.Render(m.message)
	}
	return output
}

func (m Model) renderBreadcrumb() string {
	parts := []string{"modshelf"}
	if m.level == levelPresets {
		return ui.BoldStyle.Render("modshelf / presets")
	}
	if m.level >= levelEntities {
		parts = append(parts, m.currentCategory.Name)
	}
	if m.level >= levelAssets {
		parts = append(parts, m.currentEntity.Name)
	}
	return ui.BoldStyle.Render(strings.Join(parts, " / "))
}

func (m Model) renderHeader() string {
	switch m.level {
	case levelCategories:
		return ui.HeaderStyle.Render(fmt.Sprintf("%-24s %s", "Category", "Slug"))
	case levelEntities:
		return ui.HeaderStyle.Render(fmt.Sprintf("%-28s %s", "Entity", "Mods"))
	case levelAssets:
		return ui.HeaderStyle.Render(fmt.Sprintf("%-36s %s", "Mod", "State"))
	default:
		return ui.HeaderStyle.Render("Preset")
	}
}

func (m Model) renderFooter() string {
	keys := "↑/k: up  ↓/j: down  enter: open  p: presets  esc: back  q: quit"
	switch m.level {
	case levelAssets:
		keys = "↑/k: up  ↓/j: down  space: toggle  p: presets  esc: back  q: quit"
	case levelPresets:
		keys = "↑/k: up  ↓/j: down  enter: apply  esc: back  q: quit"
	}
	return ui.FooterStyle.Render(keys)
}

func (m Model) renderRow(index int, row string) string {
	if index == m.selectedIndex {
		return ui.SelectedStyle.Render(" " + row)
	}
	return " " + row
}

func runGUI(cfg config.Config) {
	base := mustModsBase()

	m := Model{
		cfg:     cfg,
		base:    base,
		loading: true,
		width:   80,
		height:  24,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Fatalw("Failed to run GUI", zap.Error(err))
	}
}
