package backend

import (
	"errors"
	"fmt"

	"github.com/gogpu/blit"
)

// Driver name constants.
const (
	// DriverHeadless is the name of the in-process display emulation.
	DriverHeadless = "headless"
	// DriverEbiten is the name of the Ebitengine GPU driver.
	DriverEbiten = "ebiten"
)

// Common registry errors.
var (
	// ErrNoDriver is returned when no registered driver could be created.
	ErrNoDriver = errors.New("backend: no driver available")
)

// NotFoundError is returned when a driver name is not registered.
type NotFoundError struct {
	Name      string
	Available []string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("backend: driver %q not registered (available: %v)", e.Name, e.Available)
}

// Factory creates a driver instance. A factory returns an error when the
// driver cannot run in the current environment.
type Factory func() (blit.Driver, error)
