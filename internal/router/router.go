// Package router keeps the stack of screens and applies navigation
// messages to it.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skilltrail/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg goes back one screen. The last screen is never popped.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the active screen for Screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// ResetScreenMsg discards the whole stack and starts over from Screen.
type ResetScreenMsg struct {
	Screen screen.Screen
}

// Router owns the screen stack. Screens leaving the stack are closed so
// that results arriving for them afterwards are dropped.
type Router struct {
	stack []screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

// closeFrom closes screens at index i and above, topmost first, and
// truncates the stack to i.
func (r *Router) closeFrom(i int) {
	for j := r.top(); j >= i; j-- {
		if c, ok := r.stack[j].(screen.Closer); ok {
			c.Close()
		}
	}
	r.stack = r.stack[:max(i, 0)]
}

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.closeFrom(r.top())
	}
	return nil
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) > 0 {
		r.closeFrom(r.top())
	}
	return r.Push(s)
}

func (r *Router) Reset(s screen.Screen) tea.Cmd {
	r.closeFrom(0)
	return r.Push(s)
}

// Close closes every screen without changing the stack. Called once the
// program exits.
func (r *Router) Close() {
	for j := r.top(); j >= 0; j-- {
		if c, ok := r.stack[j].(screen.Closer); ok {
			c.Close()
		}
	}
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[r.top()]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case ResetScreenMsg:
		return r.Reset(msg.Screen)
	}

	if len(r.stack) == 0 {
		return nil
	}
	next, cmd := r.stack[r.top()].Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if a := r.Active(); a != nil {
		return a.View(width, height)
	}
	return ""
}
