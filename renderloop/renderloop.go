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

package renderloop

import (
	"fmt"
	"time"

	"github.com/jetsetilly/makecurrent/glcontext"
	"github.com/jetsetilly/makecurrent/logger"
)

// Client is the render payload. Every function is called with the guard
// held.
type Client interface {
	// create resources. called once before the first frame
	Initialise() error

	// draw a single frame
	Frame() error

	// destroy resources. called once after the last frame. also called if
	// Initialise() fails, in which case only some resources may exist
	Teardown()
}

// Surface is the drawable the context was created against.
type Surface interface {
	// handle pending events. returns false if the loop should end. called
	// without the guard held
	Service() bool

	// present the frame. called with the guard held
	Present() error
}

// Config for Run(). The zero value runs until the surface asks to quit.
type Config struct {
	// end the loop after this many frames. zero means no limit
	Frames int

	// minimum duration of each iteration of the loop. zero means no limit
	Interval time.Duration

	// log for the loop's own entries. nil means the central logger
	Logger     *logger.Logger
	Permission logger.Permission
}

// Result of a call to Run().
type Result struct {
	Frames int
}

// teardown the client in a guarded section of its own.
func teardown(ctx *glcontext.Context, client Client) error {
	err := ctx.Do(func() error {
		client.Teardown()
		return nil
	})
	if err != nil {
		return fmt.Errorf("renderloop: teardown: %w", err)
	}
	return nil
}

// Run initialises the client on a separate goroutine, waits for it to
// complete, and then draws frames until the surface asks to quit, the frame
// limit is reached or a frame fails. The client is always torn down before
// Run returns, including when initialisation fails.
func Run(ctx *glcontext.Context, surface Surface, client Client, cfg Config) (Result, error) {
	var res Result

	log := cfg.Logger
	if log == nil {
		log = logger.Central()
	}

	// the initialisation goroutine is joined before the loop begins. the
	// first frame can never be drawn until the initialisation guard has
	// been released
	initErr := make(chan error)
	go func() {
		initErr <- ctx.Do(client.Initialise)
	}()
	if err := <-initErr; err != nil {
		err = fmt.Errorf("renderloop: initialise: %w", err)
		if teardownErr := teardown(ctx, client); teardownErr != nil {
			log.Log(cfg.Permission, "renderloop", teardownErr)
		}
		return res, err
	}
	log.Log(cfg.Permission, "renderloop", "initialisation complete")

	var ticker *time.Ticker
	if cfg.Interval > 0 {
		ticker = time.NewTicker(cfg.Interval)
		defer ticker.Stop()
	}

	frame := func() error {
		if err := client.Frame(); err != nil {
			return err
		}
		return surface.Present()
	}

	var loopErr error
	for surface.Service() {
		if cfg.Frames > 0 && res.Frames >= cfg.Frames {
			break
		}

		if err := ctx.Do(frame); err != nil {
			loopErr = fmt.Errorf("renderloop: frame %d: %w", res.Frames, err)
			break
		}
		res.Frames++

		if ticker != nil {
			<-ticker.C
		}
	}

	teardownErr := teardown(ctx, client)

	log.Logf(cfg.Permission, "renderloop", "%d frames", res.Frames)

	if loopErr != nil {
		return res, loopErr
	}
	return res, teardownErr
}
