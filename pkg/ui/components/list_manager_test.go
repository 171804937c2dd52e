package components

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestListManagerRemovesSelected(t *testing.T) {
	test.NewTempApp(t)

	data := []string{"06:00 AM", "07:30 AM", "09:00 PM"}
	var removed []int
	lm, _ := NewListManager(ListManagerConfig{
		Len:        func() int { return len(data) },
		RenderItem: func(i int) string { return data[i] },
		OnRemove: func(i int) {
			removed = append(removed, i)
			data = append(data[:i], data[i+1:]...)
		},
	})

	lm.RemoveSelected()
	assert.Empty(t, removed, "nothing selected")

	lm.list.Select(1)
	assert.Equal(t, 1, lm.Selected())

	lm.RemoveSelected()
	assert.Equal(t, []int{1}, removed)
	assert.Equal(t, []string{"06:00 AM", "09:00 PM"}, data)
	assert.Equal(t, -1, lm.Selected())
}

func TestListManagerRefreshDropsStaleSelection(t *testing.T) {
	test.NewTempApp(t)

	data := []string{"a", "b"}
	lm, _ := NewListManager(ListManagerConfig{
		Len:        func() int { return len(data) },
		RenderItem: func(i int) string { return data[i] },
	})

	lm.list.Select(1)
	data = data[:1]
	lm.Refresh()
	assert.Equal(t, -1, lm.Selected())
}
