package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListItem(t *testing.T) {
	l := NewListItem("Groceries", DefaultColor, "cart.fill")

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "Groceries", l.Title)
	assert.Equal(t, "cart.fill", l.Image)
}

func TestListItem_RenameKeepsIdentity(t *testing.T) {
	l := NewListItem("Old", DefaultColor, DefaultListImage)
	id := l.ID

	l.Rename("New")

	assert.Equal(t, "New", l.Title)
	assert.Equal(t, id, l.ID)
}

func TestListItem_Edit(t *testing.T) {
	l := NewListItem("Old", DefaultColor, DefaultListImage)
	blue, err := ParseColor("blue")
	require.NoError(t, err)

	l.Edit("New", blue, "book.fill")

	assert.Equal(t, "New", l.Title)
	assert.Equal(t, blue, l.Color)
	assert.Equal(t, "book.fill", l.Image)
}

func TestValidateTitle(t *testing.T) {
	assert.ErrorIs(t, ValidateTitle(""), ErrBlankTitle)
	assert.ErrorIs(t, ValidateTitle("  \t\n"), ErrBlankTitle)
	assert.NoError(t, ValidateTitle(" x "))
}
