package cli

import (
	"sync"

	"github.com/dmitrijs2005/gatepass/internal/client/guard"
)

// Navigator is the screen history of the shell. The session watcher may
// redirect from another goroutine, hence the lock.
type Navigator struct {
	mu    sync.Mutex
	stack []guard.Screen
}

func NewNavigator(start guard.Screen) *Navigator {
	return &Navigator{stack: []guard.Screen{start}}
}

func (n *Navigator) Push(s guard.Screen) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = append(n.stack, s)
}

// Replace swaps the current entry, so going back never returns to it. When
// the entry below is already s the two merge.
func (n *Navigator) Replace(s guard.Screen) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 0 {
		n.stack = []guard.Screen{s}
		return
	}
	last := len(n.stack) - 1
	if last > 0 && n.stack[last-1] == s {
		n.stack = n.stack[:last]
		return
	}
	n.stack[last] = s
}

// Back pops the current entry and returns the one below it. The last entry
// is never popped.
func (n *Navigator) Back() guard.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) > 1 {
		n.stack = n.stack[:len(n.stack)-1]
	}
	return n.stack[len(n.stack)-1]
}

func (n *Navigator) Current() guard.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 0 {
		return guard.ScreenLogin
	}
	return n.stack[len(n.stack)-1]
}

// Reset drops the whole history and starts over at s.
func (n *Navigator) Reset(s guard.Screen) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = []guard.Screen{s}
}

func (n *Navigator) History() []guard.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]guard.Screen(nil), n.stack...)
}
