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
	"sync"

	"github.com/jetsetilly/makecurrent/logger"
)

// ThreadID identifies the thread a context was made current on.
type ThreadID uint64

// Observer is notified every time a context is made current. Activated() is
// called with the guard held.
type Observer interface {
	Activated(handle string, thread ThreadID)
}

// TransitionLog is an Observer that logs a line every time the context is
// made current on a thread different to the previous activation.
//
// Context hand-off between threads is expected to be rare and structured, for
// example once after initialisation, so a busy TransitionLog is a sign of
// hand-off churn.
type TransitionLog struct {
	log  *logger.Logger
	perm logger.Permission

	crit        sync.Mutex
	last        ThreadID
	seen        bool
	activations int
	transitions int
}

// NewTransitionLog is the preferred method of initialisation for the
// TransitionLog type. A nil log means the central logger.
func NewTransitionLog(log *logger.Logger, perm logger.Permission) *TransitionLog {
	if log == nil {
		log = logger.Central()
	}
	return &TransitionLog{
		log:  log,
		perm: perm,
	}
}

// Activated implements the Observer interface.
func (tl *TransitionLog) Activated(handle string, thread ThreadID) {
	tl.crit.Lock()
	defer tl.crit.Unlock()

	tl.activations++

	if !tl.seen {
		tl.log.Logf(tl.perm, "glcontext", "MakeCurrent(%s); thread ID: %d", handle, thread)
	} else if thread != tl.last {
		tl.log.Logf(tl.perm, "glcontext", "MakeCurrent(%s); thread ID: %d (from %d)", handle, thread, tl.last)
		tl.transitions++
	}

	tl.last = thread
	tl.seen = true
}

// Last returns the most recent thread to have activated the context. The
// boolean is false if no activation has been observed.
func (tl *TransitionLog) Last() (ThreadID, bool) {
	tl.crit.Lock()
	defer tl.crit.Unlock()
	return tl.last, tl.seen
}

// Transitions returns the number of times the context has been activated on a
// thread different to the previous activation. The very first activation is
// not a transition.
func (tl *TransitionLog) Transitions() int {
	tl.crit.Lock()
	defer tl.crit.Unlock()
	return tl.transitions
}

// Activations returns the total number of activations observed.
func (tl *TransitionLog) Activations() int {
	tl.crit.Lock()
	defer tl.crit.Unlock()
	return tl.activations
}
