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

package glcontext

import (
	"fmt"
	"sync"

	"github.com/jetsetilly/makecurrent/logger"
)

// Error codes as returned by an ErrorSource. The values are the same as the
// OpenGL constants of the same name.
const (
	NoErrorCode                     uint32 = 0x0000
	InvalidEnumCode                 uint32 = 0x0500
	InvalidValueCode                uint32 = 0x0501
	InvalidOperationCode            uint32 = 0x0502
	OutOfMemoryCode                 uint32 = 0x0505
	InvalidFramebufferOperationCode uint32 = 0x0506
)

// ErrorKind classifies an error code.
type ErrorKind int

// List of valid ErrorKind values.
const (
	InvalidEnum ErrorKind = iota
	InvalidValue
	InvalidOperation
	InvalidFramebufferOperation
	OutOfMemory
	Unknown
	numErrorKinds
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	}
	return "unknown error"
}

// Classify returns the ErrorKind for a non-zero error code.
func Classify(code uint32) ErrorKind {
	switch code {
	case InvalidEnumCode:
		return InvalidEnum
	case InvalidValueCode:
		return InvalidValue
	case InvalidOperationCode:
		return InvalidOperation
	case InvalidFramebufferOperationCode:
		return InvalidFramebufferOperation
	case OutOfMemoryCode:
		return OutOfMemory
	}
	return Unknown
}

// DeviceError is a single entry drained from the device error queue.
type DeviceError struct {
	Kind ErrorKind
	Code uint32
}

func (e DeviceError) String() string {
	if e.Kind == Unknown {
		return fmt.Sprintf("%s (0x%04x)", e.Kind, e.Code)
	}
	return e.Kind.String()
}

// DefaultDrainLimit is the number of errors DrainAndReport() will accept
// before abandoning the drain at the next error. Real devices keep a handful of error flags at
// most so this will only be reached by a misbehaving device.
const DefaultDrainLimit = 32

// ProbeStats is a snapshot of the errors seen by a Probe over its lifetime.
type ProbeStats struct {
	// errors reported, indexed by ErrorKind
	Errors [numErrorKinds]int

	// number of drains that have been abandoned because the drain limit
	// was exceeded
	Abandoned int

	// number of calls to DrainAndReport()
	Drains int
}

// Total returns the total number of errors reported.
func (st ProbeStats) Total() int {
	var n int
	for _, c := range st.Errors {
		n += c
	}
	return n
}

// Probe drains and reports the device error queue.
type Probe struct {
	limit int
	log   *logger.Logger
	perm  logger.Permission

	crit  sync.Mutex
	stats ProbeStats
}

// NewProbe is the preferred method of initialisation for the Probe type. A
// limit of zero or less means DefaultDrainLimit. A nil log means the central
// logger.
func NewProbe(limit int, log *logger.Logger, perm logger.Permission) *Probe {
	if limit <= 0 {
		limit = DefaultDrainLimit
	}
	if log == nil {
		log = logger.Central()
	}
	return &Probe{
		limit: limit,
		log:   log,
		perm:  perm,
	}
}

// Limit returns the maximum number of errors that will be drained in a single
// call to DrainAndReport().
func (p *Probe) Limit() int {
	return p.limit
}

// DrainAndReport queries the ErrorSource until it reports NoErrorCode. Each
// error is logged with the "gl" tag, oldest first, and returned in the same
// order. Every call is numbered and the log entry names the call and the
// position of the error within it, so no two reports are ever folded into
// one log entry.
//
// Unknown error codes are reported like any other error and the drain
// continues. If more than Limit() errors are found without seeing
// NoErrorCode then the drain is abandoned. The error that exceeded the limit
// is reported like the others. Errors after it remain in the device queue.
func (p *Probe) DrainAndReport(src ErrorSource) []DeviceError {
	var drained []DeviceError

	p.crit.Lock()
	p.stats.Drains++
	section := p.stats.Drains
	p.crit.Unlock()

	abandoned := false
	for !abandoned {
		code := src.GetError()
		if code == NoErrorCode {
			break
		}

		abandoned = len(drained) >= p.limit

		e := DeviceError{Kind: Classify(code), Code: code}
		drained = append(drained, e)
		p.log.Logf(p.perm, "gl", "section %d, error %d: %s", section, len(drained), e)
	}

	if abandoned {
		p.log.Logf(p.perm, "gl", "section %d: error drain abandoned after %d errors", section, len(drained))
	}

	if len(drained) > 0 {
		p.crit.Lock()
		for _, e := range drained {
			p.stats.Errors[e.Kind]++
		}
		if abandoned {
			p.stats.Abandoned++
		}
		p.crit.Unlock()
	}

	return drained
}

// Stats returns a snapshot of the errors reported so far.
func (p *Probe) Stats() ProbeStats {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.stats
}
