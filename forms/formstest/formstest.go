// Package formstest provides an in-memory forms provider for tests.
package formstest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mbolis/quick-forms/forms"
)

var ErrInjected = errors.New("injected failure")

type Call struct {
	Op       string
	FormID   string
	Title    string
	Position int
	Item     forms.Item
}

// API records every call. Set FailCreate to make CreateForm fail, or FailAt to
// make the insertion at that position fail (-1 disables it).
type API struct {
	mu         sync.Mutex
	Calls      []Call
	FailCreate bool
	FailAt     int
	next       int
}

func New() *API {
	return &API{FailAt: -1}
}

func (a *API) CreateForm(ctx context.Context, title string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Calls = append(a.Calls, Call{Op: "create_form", Title: title})
	if a.FailCreate {
		return "", ErrInjected
	}
	a.next++
	return fmt.Sprintf("form-%d", a.next), nil
}

func (a *API) InsertItem(ctx context.Context, formID string, position int, item forms.Item) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Calls = append(a.Calls, Call{Op: "insert_item", FormID: formID, Position: position, Item: item})
	if position == a.FailAt {
		return ErrInjected
	}
	return nil
}

func (a *API) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Calls)
}
