package components

import (
	"strings"

	"github.com/relentnet/scrollr/pkg/registry"
	"github.com/relentnet/scrollr/pkg/tui/styles"
)

// PickerModel is the add-channel modal: registry types the user has not
// configured yet, one per line.
type PickerModel struct {
	choices []registry.Manifest
	cursor  int
	visible bool
}

// NewPickerModel creates a hidden picker.
func NewPickerModel() PickerModel {
	return PickerModel{}
}

// Open shows the picker with the given configured set excluded. Returns
// false when every registered type is already configured.
func (m *PickerModel) Open(configured map[registry.Type]bool) bool {
	m.choices = m.choices[:0]
	for _, man := range registry.All() {
		if !configured[man.Type] {
			m.choices = append(m.choices, man)
		}
	}
	if len(m.choices) == 0 {
		return false
	}
	m.cursor = 0
	m.visible = true
	return true
}

// Close hides the picker.
func (m *PickerModel) Close() {
	m.visible = false
}

// Visible reports whether the picker is showing.
func (m PickerModel) Visible() bool {
	return m.visible
}

// Move shifts the cursor by delta, clamped.
func (m *PickerModel) Move(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.choices) {
		m.cursor = len(m.choices) - 1
	}
}

// Selected returns the manifest under the cursor.
func (m PickerModel) Selected() (registry.Manifest, bool) {
	if !m.visible || m.cursor >= len(m.choices) {
		return registry.Manifest{}, false
	}
	return m.choices[m.cursor], true
}

// View renders the modal.
func (m PickerModel) View() string {
	if !m.visible {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.PickerTitleStyle.Render("Add channel"))
	b.WriteByte('\n')
	for i, man := range m.choices {
		line := man.Icon + " " + man.Label + "  " + man.Description
		if i == m.cursor {
			b.WriteString(styles.PickerSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(styles.PickerItemStyle.Render("  " + line))
		}
		b.WriteByte('\n')
	}
	b.WriteString(styles.PickerHintStyle.Render("enter add · esc cancel"))
	return styles.PickerModalStyle.Render(b.String())
}
