package services

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrCancelled = errors.New("cancelled")
	ErrInFlight  = errors.New("a previous request is still in progress")
)

// Confirmer asks the operator to approve an action before it is sent.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves everything; for scripted use.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

func confirm(ctx context.Context, c Confirmer, prompt string) error {
	ok, err := c.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// inFlight holds one busy flag per action name.
type inFlight struct {
	mu   sync.Mutex
	busy map[string]bool
}

func (f *inFlight) acquire(action string) (release func(), err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy == nil {
		f.busy = make(map[string]bool)
	}
	if f.busy[action] {
		return nil, ErrInFlight
	}
	f.busy[action] = true
	return func() {
		f.mu.Lock()
		delete(f.busy, action)
		f.mu.Unlock()
	}, nil
}
