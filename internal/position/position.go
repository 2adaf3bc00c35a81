// Package position persists the floating button's last screen position.
package position

import "fmt"

// Default anchor used when no position has ever been persisted.
const (
	DefaultX = 0
	DefaultY = 100
)

// Position is the top-left anchor of the button overlay in screen coordinates.
// Values are replaced wholesale; nothing clamps them to the screen.
type Position struct {
	X int `json:"button_x"`
	Y int `json:"button_y"`
}

// Default returns the position used when the store is empty.
func Default() Position {
	return Position{X: DefaultX, Y: DefaultY}
}

// Add returns p offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Store loads and saves the button position.
type Store interface {
	Load() (Position, error)
	Save(Position) error
}
