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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It adds the notion of sub-modes: a command line is a chain of
// modes, each with its own flags.
//
//	makecurrent -echo HEADLESS -frames 10
//
// In the example the top-level mode accepts the -echo flag and then selects
// the HEADLESS sub-mode, which accepts the -frames flag.
//
// Typical use:
//
//	md := &modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "HEADLESS")
//	echo := md.AddBool("echo", false, "echo log to stdout")
//
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "HEADLESS":
//		md.NewMode()
//		frames := md.AddInt("frames", 60, "number of frames")
//		p, err := md.Parse()
//		...
//	}
//
// The first sub-mode added is the default. If the next argument is not one of
// the listed sub-modes then the default is selected and the argument is left
// for the next call to Parse(). Flags that are not defined for a mode with
// sub-modes are also left for the default sub-mode, so that
//
//	makecurrent -echo -frames 10
//
// is the same as
//
//	makecurrent -echo RUN -frames 10
//
// when RUN is the default.
//
// Help (-help or -h) is handled automatically and lists the flags and the
// sub-modes of the mode being parsed.
package modalflag
