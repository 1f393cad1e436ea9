// This file is part of makecurrent.
//
// makecurrent is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// makecurrent is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with makecurrent.  If not, see <https://www.gnu.org/licenses/>.

package sdlgl

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/jetsetilly/makecurrent/logger"
	"github.com/veandco/go-sdl2/sdl"
)

// Config for NewSurface().
type Config struct {
	Title  string
	Width  int
	Height int

	// wait for the vertical retrace when presenting
	VSync bool

	Logger     *logger.Logger
	Permission logger.Permission
}

// Surface is an SDL window with a GL context created against it.
type Surface struct {
	window  *sdl.Window
	context sdl.GLContext

	log  *logger.Logger
	perm logger.Permission

	// set when a quit event has been seen
	quit bool
}

// NewSurface is the preferred method of initialisation for the Surface type.
//
// On return the GL entry points have been loaded and no context is current
// on the calling thread.
func NewSurface(cfg Config) (*Surface, error) {
	// the SDL package calls LockOSThread() but we call it here too. we never
	// unlock it
	runtime.LockOSThread()

	srf := &Surface{
		log:  cfg.Logger,
		perm: cfg.Permission,
	}
	if srf.log == nil {
		srf.log = logger.Central()
	}

	err := sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	attrs := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_CONTEXT_MAJOR_VERSION, 3},
		{sdl.GL_CONTEXT_MINOR_VERSION, 3},
		{sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	}
	for _, a := range attrs {
		err = sdl.GLSetAttribute(a.attr, a.value)
		if err != nil {
			sdl.Quit()
			return nil, fmt.Errorf("sdl: %w", err)
		}
	}

	var sdlVersion sdl.Version
	sdl.VERSION(&sdlVersion)
	srf.log.Logf(srf.perm, "sdl", "version %d.%d.%d", sdlVersion.Major, sdlVersion.Minor, sdlVersion.Patch)

	srf.window, err = sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height),
		sdl.WINDOW_OPENGL)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	srf.context, err = srf.window.GLCreateContext()
	if err != nil {
		_ = srf.Close()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	// the new context is current. the GL loader needs it to be
	err = srf.window.GLMakeCurrent(srf.context)
	if err != nil {
		sdl.GLDeleteContext(srf.context)
		_ = srf.Close()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	err = gl.Init()
	if err != nil {
		_ = srf.ReleaseCurrent()
		sdl.GLDeleteContext(srf.context)
		_ = srf.Close()
		return nil, fmt.Errorf("gl: %w", err)
	}
	srf.log.Logf(srf.perm, "gl", "version %s", gl.GoStr(gl.GetString(gl.VERSION)))
	srf.log.Logf(srf.perm, "gl", "renderer %s", gl.GoStr(gl.GetString(gl.RENDERER)))

	// swap interval applies to the current context
	interval := 0
	if cfg.VSync {
		interval = 1
	}
	err = sdl.GLSetSwapInterval(interval)
	if err != nil {
		srf.log.Logf(srf.perm, "sdl", "GLSetSwapInterval(%d): %s", interval, err.Error())
	}

	// nothing is current on any thread until the first guard is taken
	err = srf.ReleaseCurrent()
	if err != nil {
		sdl.GLDeleteContext(srf.context)
		_ = srf.Close()
		return nil, err
	}

	return srf, nil
}

func (srf *Surface) String() string {
	return fmt.Sprintf("%p, %p", srf.window, srf.context)
}

// MakeCurrent implements the glcontext.Device interface.
func (srf *Surface) MakeCurrent() error {
	err := srf.window.GLMakeCurrent(srf.context)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	return nil
}

// ReleaseCurrent implements the glcontext.Device interface.
func (srf *Surface) ReleaseCurrent() error {
	// a nil window and a nil context makes no context current on the calling
	// thread
	var window *sdl.Window
	err := window.GLMakeCurrent(nil)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	return nil
}

// GetError implements the glcontext.ErrorSource interface.
func (srf *Surface) GetError() uint32 {
	return gl.GetError()
}

// Destroy implements the glcontext.Device interface. The window is not
// destroyed until Close().
func (srf *Surface) Destroy() error {
	if srf.context == nil {
		return fmt.Errorf("sdl: context already deleted")
	}
	sdl.GLDeleteContext(srf.context)
	srf.context = nil
	return nil
}

// Service implements the renderloop.Surface interface. All pending events are
// handled. Returns false once a quit event has been seen.
func (srf *Surface) Service() bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			srf.quit = true
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
				srf.quit = true
			}
		}
	}
	return !srf.quit
}

// Present implements the renderloop.Surface interface.
func (srf *Surface) Present() error {
	srf.window.GLSwap()
	return nil
}

// Close destroys the window and quits SDL. Should be called after the
// glcontext has been destroyed.
func (srf *Surface) Close() error {
	defer sdl.Quit()
	if srf.window != nil {
		err := srf.window.Destroy()
		if err != nil {
			return fmt.Errorf("sdl: %w", err)
		}
		srf.window = nil
	}
	return nil
}
