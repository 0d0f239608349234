package view

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AppView
		want     bool
	}{
		{Splash, SignIn, true},
		{Splash, Home, true},
		{Splash, Chat, false},
		{SignIn, Home, true},
		{SignIn, Saved, false},
		{SignIn, Splash, false},
		{Home, Chat, true},
		{Chat, Vision, true},
		{Vision, Saved, true},
		{Saved, Home, true},
		{Chat, SignIn, true},
		{Home, Splash, false},
		{AppView("SETTINGS"), Home, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestMainViewsAreFullyConnected(t *testing.T) {
	for from := range mainViews {
		for to := range mainViews {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
		assert.True(t, CanTransition(from, SignIn))
	}
}

func TestNavigator_CompleteSplash(t *testing.T) {
	n := NewNavigator()
	assert.Equal(t, Splash, n.Current())

	got, err := n.CompleteSplash(false)
	require.NoError(t, err)
	assert.Equal(t, SignIn, got)

	_, err = n.CompleteSplash(true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, SignIn, n.Current())

	got, err = NewNavigator().CompleteSplash(true)
	require.NoError(t, err)
	assert.Equal(t, Home, got)
}

func TestNavigator_SignInOutFlow(t *testing.T) {
	n := NewNavigator()
	_, err := n.CompleteSplash(false)
	require.NoError(t, err)

	assert.ErrorIs(t, n.SignedOut(), ErrInvalidTransition)
	require.NoError(t, n.SignedIn())
	assert.Equal(t, Home, n.Current())

	require.NoError(t, n.Go(Vision))
	require.NoError(t, n.Go(Saved))
	assert.ErrorIs(t, n.SignedIn(), ErrInvalidTransition)

	require.NoError(t, n.SignedOut())
	assert.Equal(t, SignIn, n.Current())
}

func TestNavigator_IllegalMoveKeepsState(t *testing.T) {
	n := NewNavigator()

	err := n.Go(Chat)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, Splash, n.Current())
}

func TestNavigator_ConcurrentUse(t *testing.T) {
	n := NewNavigator()
	_, err := n.CompleteSplash(true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	targets := []AppView{Home, Chat, Vision, Saved}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = n.Go(targets[i%len(targets)])
			_ = n.Current()
		}(i)
	}
	wg.Wait()

	assert.True(t, n.Current().RequiresSession())
}
