package platform

import "errors"

// ErrNoDisplays is returned when the window system reports no active display.
var ErrNoDisplays = errors.New("no displays found")
