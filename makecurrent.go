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

package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/makecurrent/device/headless"
	"github.com/jetsetilly/makecurrent/device/sdlgl"
	"github.com/jetsetilly/makecurrent/glcontext"
	"github.com/jetsetilly/makecurrent/logger"
	"github.com/jetsetilly/makecurrent/modalflag"
	"github.com/jetsetilly/makecurrent/renderloop"
	"github.com/jetsetilly/makecurrent/statsview"
	"github.com/jetsetilly/makecurrent/stress"
	"github.com/jetsetilly/makecurrent/triangle"
	"github.com/jetsetilly/makecurrent/version"
)

func init() {
	// SDL window creation and event handling must happen on the main thread.
	// the main goroutine starts on the main thread and we keep it there
	runtime.LockOSThread()
}

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout))
}

// flags common to all modes
type common struct {
	drainLimit int
}

// launch is the body of main(). returns the exit status.
func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "HEADLESS", "STRESS")
	md.AdditionalHelp(version.Banner())

	echo := md.AddBool("echo", false, "echo log entries to stdout as they are made")
	drainLimit := md.AddInt("drainlimit", glcontext.DefaultDrainLimit, "maximum number of GL errors drained per guarded section")
	stats := md.AddBool("statsview", false, "launch the runtime statistics server (requires the statsview build tag)")
	printLog := md.AddBool("log", false, "print the log on exit")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	if *drainLimit <= 0 {
		fmt.Fprintf(output, "* error: drainlimit must be greater than zero\n")
		return 10
	}

	if *echo {
		logger.SetEcho(output, false)
		defer logger.SetEcho(nil, false)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(output)
		} else {
			fmt.Fprintln(output, "* statsview not available in this build")
		}
	}

	cmn := common{drainLimit: *drainLimit}

	switch md.Mode() {
	case "RUN":
		err = run(md, cmn, output)
	case "HEADLESS":
		err = headlessMode(md, cmn, output)
	case "STRESS":
		err = stressMode(md, cmn, output)
	}

	if *printLog {
		logger.Write(output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return 20
	}

	return 0
}

func run(md *modalflag.Modes, cmn common, output io.Writer) error {
	md.NewMode()

	width := md.AddInt("width", 800, "width of window")
	height := md.AddInt("height", 600, "height of window")
	vsync := md.AddBool("vsync", true, "wait for vertical retrace when presenting")
	frames := md.AddInt("frames", 0, "number of frames to draw (0 runs until the window is closed)")
	provoke := md.AddBool("provoke", false, "raise GL errors during initialisation")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	srf, err := sdlgl.NewSurface(sdlgl.Config{
		Title:      version.ApplicationName,
		Width:      *width,
		Height:     *height,
		VSync:      *vsync,
		Permission: logger.Allow,
	})
	if err != nil {
		return err
	}
	defer srf.Close()

	ctx := glcontext.NewContext(srf, glcontext.Options{
		Observer:   glcontext.NewTransitionLog(nil, logger.Allow),
		DrainLimit: cmn.drainLimit,
	})

	res, err := renderloop.Run(ctx, srf, triangle.NewTriangle(*provoke), renderloop.Config{
		Frames: *frames,
	})

	// the context is deleted before the window is destroyed
	if derr := ctx.Destroy(); derr != nil && err == nil {
		err = derr
	}

	summary(output, ctx, res)

	return err
}

func headlessMode(md *modalflag.Modes, cmn common, output io.Writer) error {
	md.NewMode()

	frames := md.AddInt("frames", 60, "number of frames to draw")
	slowInit := md.AddDuration("slowinit", 0, "duration of initialisation")
	provoke := md.AddBool("provoke", false, "raise GL errors during initialisation")
	memvizFile := md.AddString("memviz", "", "write a DOT diagram of the context state to file after teardown")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *frames <= 0 {
		return fmt.Errorf("frames must be greater than zero")
	}

	dev := headless.NewDevice("main", nil, logger.Allow)
	ctx := glcontext.NewContext(dev, glcontext.Options{
		Observer:   glcontext.NewTransitionLog(nil, logger.Allow),
		DrainLimit: cmn.drainLimit,
	})

	tri := headless.NewTriangle(dev)
	tri.SlowInit = *slowInit
	tri.Provoke = *provoke

	res, err := renderloop.Run(ctx, dev, tri, renderloop.Config{
		Frames: *frames,
	})
	if derr := ctx.Destroy(); derr != nil && err == nil {
		err = derr
	}

	summary(output, ctx, res)

	c := dev.Counters()
	fmt.Fprintf(output, "device: %d clears, %d draws, %d presents, %d violations\n",
		c.Clears, c.Draws, c.Presents, c.Violations)

	if *memvizFile != "" {
		if verr := writeMemviz(*memvizFile, ctx); verr != nil && err == nil {
			err = verr
		}
	}

	if err != nil {
		return err
	}
	if c.Violations > 0 {
		return fmt.Errorf("%d calls made without the context current", c.Violations)
	}
	return nil
}

func stressMode(md *modalflag.Modes, cmn common, output io.Writer) error {
	md.NewMode()

	workers := md.AddInt("workers", runtime.NumCPU()*2, "number of goroutines contending for the context")
	iterations := md.AddInt("iterations", 100, "number of guarded sections per goroutine")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// there are too many activations for the transition log entries to be
	// useful
	dev := headless.NewDevice("stress", nil, logger.Allow)
	tl := glcontext.NewTransitionLog(nil, logger.Deny)
	ctx := glcontext.NewContext(dev, glcontext.Options{
		Observer:   tl,
		DrainLimit: cmn.drainLimit,
	})

	rep, err := stress.Run(ctx, stress.Config{
		Workers:    *workers,
		Iterations: *iterations,
	}, func(_ int) error {
		dev.Clear()
		return nil
	})
	if derr := ctx.Destroy(); derr != nil && err == nil {
		err = derr
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(output, rep)

	if rep.Concurrent > 0 || rep.Overlaps > 0 {
		return fmt.Errorf("guarded sections overlapped")
	}
	if v := dev.Counters().Violations; v > 0 {
		return fmt.Errorf("%d calls made without the context current", v)
	}
	return nil
}

func summary(output io.Writer, ctx *glcontext.Context, res renderloop.Result) {
	st := ctx.Stats()
	fmt.Fprintf(output, "%d frames; %d activations; %d releases; %d device errors\n",
		res.Frames, st.Activations, st.Releases, st.Probe.Total())
}

func writeMemviz(filename string, ctx *glcontext.Context) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("memviz: %w", err)
	}
	defer f.Close()

	memviz.Map(f, ctx)

	return nil
}
