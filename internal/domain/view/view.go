// Package view models the top-level screens of Chef AI and the legal moves
// between them.
package view

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// AppView is a top-level UI state.
type AppView string

const (
	Splash AppView = "SPLASH"
	SignIn AppView = "SIGNIN"
	Home   AppView = "HOME"
	Chat   AppView = "CHAT"
	Vision AppView = "VISION"
	Saved  AppView = "SAVED"
)

// SplashDuration is how long the introductory splash sequence runs.
const SplashDuration = 3 * time.Second

// ErrInvalidTransition is returned for a move the view graph does not allow.
var ErrInvalidTransition = errors.New("invalid view transition")

// mainViews are reachable from one another once signed in.
var mainViews = map[AppView]bool{
	Home:   true,
	Chat:   true,
	Vision: true,
	Saved:  true,
}

// RequiresSession reports whether the view is only shown to a signed-in user.
func (v AppView) RequiresSession() bool {
	return mainViews[v]
}

func (v AppView) String() string {
	return string(v)
}

// CanTransition reports whether moving from one view to another is legal.
func CanTransition(from, to AppView) bool {
	switch {
	case from == Splash:
		return to == SignIn || to == Home
	case from == SignIn:
		return to == Home
	case mainViews[from]:
		return mainViews[to] || to == SignIn
	default:
		return false
	}
}

// Navigator tracks the current view. It is safe for concurrent use.
type Navigator struct {
	mu      sync.RWMutex
	current AppView
}

// NewNavigator starts on the splash screen.
func NewNavigator() *Navigator {
	return &Navigator{current: Splash}
}

// Current returns the view being shown.
func (n *Navigator) Current() AppView {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// CompleteSplash leaves the splash screen for HOME when a session exists and
// SIGNIN otherwise.
func (n *Navigator) CompleteSplash(loggedIn bool) (AppView, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != Splash {
		return n.current, fmt.Errorf("%w: splash already completed", ErrInvalidTransition)
	}
	n.current = SignIn
	if loggedIn {
		n.current = Home
	}
	return n.current, nil
}

// SignedIn moves from SIGNIN to HOME.
func (n *Navigator) SignedIn() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != SignIn {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.current, Home)
	}
	n.current = Home
	return nil
}

// SignedOut returns to SIGNIN from any signed-in view.
func (n *Navigator) SignedOut() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !mainViews[n.current] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.current, SignIn)
	}
	n.current = SignIn
	return nil
}

// Go moves to the target view if the transition is legal. An illegal
// request leaves the current view unchanged.
func (n *Navigator) Go(to AppView) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !CanTransition(n.current, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.current, to)
	}
	n.current = to
	return nil
}
