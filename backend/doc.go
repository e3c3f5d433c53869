// Package backend selects display drivers for blit.
//
// Driver packages register themselves from init() with a priority:
//
//	import _ "github.com/gogpu/blit/backend/headless" // priority 10
//	import _ "github.com/gogpu/blit/backend/ebiten"   // priority 100
//
// # Driver Selection
//
// Use Default() to create the best available driver, or Get() to request
// a specific driver by name:
//
//	drv, err := backend.Default()
//
//	// Or request a specific driver
//	drv, err := backend.Get(backend.DriverHeadless)
//
// # Usage with Context
//
//	dc := blit.NewContext()
//	display, err := dc.CreateDisplay(drv, 640, 480)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer display.Close()
//
// # Available Drivers
//
// - "headless": display storage emulated in process memory (always available)
// - "ebiten": GPU textures through Ebitengine
package backend
