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

package test

import (
	"sync"
	"testing"
)

// Writer is an implementation of the io.Writer interface. It should be used to
// capture output and to compare with predefined strings.
//
// Writes from more than one goroutine are serialised.
type Writer struct {
	crit   sync.Mutex
	buffer []byte
}

func (tw *Writer) Write(p []byte) (n int, err error) {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	tw.buffer = append(tw.buffer, p...)
	return len(p), nil
}

// Clear empties the buffer.
func (tw *Writer) Clear() {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	tw.buffer = tw.buffer[:0]
}

// Compare buffered output with predefined/example string.
func (tw *Writer) Compare(s string) bool {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	return s == string(tw.buffer)
}

// ExpectOutput fails the test if the buffered output is not equal to the
// predefined string. The buffer is cleared in all cases.
func (tw *Writer) ExpectOutput(t *testing.T, s string) {
	t.Helper()
	tw.crit.Lock()
	b := string(tw.buffer)
	tw.buffer = tw.buffer[:0]
	tw.crit.Unlock()
	if b != s {
		t.Errorf("unexpected output: %q (wanted %q)", b, s)
	}
}

// implements Stringer interface.
func (tw *Writer) String() string {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	return string(tw.buffer)
}
