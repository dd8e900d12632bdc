package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Fallback values applied when a stored list is missing a field.
const (
	DefaultListTitle = "Unknown List"
	DefaultListImage = "checkmark"
)

// ErrBlankTitle is returned when a list or task title is empty after
// trimming whitespace.
var ErrBlankTitle = errors.New("title must not be empty")

// ListImages are the icon names offered when creating a list.
var ListImages = []string{
	"list.bullet", "tray.fill", "flag.fill", "gift.fill", "figure.walk",
	"cart.fill", "leaf.fill", "book.fill", "doc.fill", "house.fill",
	"building.columns.fill", "shippingbox.fill", "pawprint.fill",
	"creditcard.fill", "pills.fill", "stethoscope", "gamecontroller.fill",
	"headphones",
}

// ValidateTitle rejects blank titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrBlankTitle
	}
	return nil
}

// ListItem is a named, colored container of tasks.
type ListItem struct {
	ID    string `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	Color Color  `json:"color" db:"-"`
	Image string `json:"image" db:"image"`
}

// NewListItem creates a list with a freshly generated identifier.
func NewListItem(title string, color Color, image string) ListItem {
	return ListItem{
		ID:    uuid.New().String(),
		Title: title,
		Color: color,
		Image: image,
	}
}

// Rename replaces the title. Callers validate it first.
func (l *ListItem) Rename(newTitle string) {
	l.Title = newTitle
}

// Edit replaces the title, color and image together.
func (l *ListItem) Edit(title string, color Color, image string) {
	l.Title = title
	l.Color = color
	l.Image = image
}
