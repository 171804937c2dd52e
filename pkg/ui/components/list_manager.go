package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ListManager shows a selectable list with add and remove buttons. The caller
// owns the data; the list reads it through Len and RenderItem.
type ListManager struct {
	list        *widget.List
	selectedIdx int
	config      ListManagerConfig
}

// ListManagerConfig configures the list manager
type ListManagerConfig struct {
	Len        func() int        // Number of items
	RenderItem func(int) string  // Renders an item for display
	OnAdd      func()            // Called when the add button is tapped; nil hides it
	OnRemove   func(int)         // Called with the selected index; nil hides the remove button
	AddControl fyne.CanvasObject // Extra controls shown next to the buttons (optional)
}

// NewListManager creates a new list manager component
func NewListManager(config ListManagerConfig) (*ListManager, *fyne.Container) {
	lm := &ListManager{
		selectedIdx: -1,
		config:      config,
	}

	lm.list = widget.NewList(
		func() int {
			return lm.config.Len()
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("template")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if i < lm.config.Len() {
				label.SetText(lm.config.RenderItem(i))
			}
		})

	lm.list.OnSelected = func(id widget.ListItemID) {
		lm.selectedIdx = id
	}
	lm.list.OnUnselected = func(widget.ListItemID) {
		lm.selectedIdx = -1
	}

	buttons := container.NewHBox()
	if config.OnAdd != nil {
		buttons.Add(widget.NewButtonWithIcon("", theme.ContentAddIcon(), config.OnAdd))
	}
	if config.OnRemove != nil {
		buttons.Add(widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), lm.RemoveSelected))
	}

	var controls fyne.CanvasObject = buttons
	if config.AddControl != nil {
		controls = container.NewBorder(nil, nil, nil, buttons, config.AddControl)
	}

	listScroll := container.NewScroll(lm.list)
	listScroll.SetMinSize(fyne.NewSize(0, 200))

	listWithBorder := container.NewBorder(
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		listScroll,
	)

	return lm, container.NewBorder(nil, controls, nil, nil, listWithBorder)
}

// Refresh re-reads the data
func (lm *ListManager) Refresh() {
	if lm.selectedIdx >= lm.config.Len() {
		lm.list.UnselectAll()
		lm.selectedIdx = -1
	}
	lm.list.Refresh()
}

// Selected returns the selected index, or -1
func (lm *ListManager) Selected() int {
	return lm.selectedIdx
}

// RemoveSelected hands the selected item to OnRemove and clears the selection
func (lm *ListManager) RemoveSelected() {
	if lm.selectedIdx < 0 || lm.selectedIdx >= lm.config.Len() {
		return
	}
	idx := lm.selectedIdx
	lm.list.UnselectAll()
	lm.selectedIdx = -1
	if lm.config.OnRemove != nil {
		lm.config.OnRemove(idx)
	}
	lm.list.Refresh()
}
