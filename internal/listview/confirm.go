package listview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maxviazov/shop-admin-console/internal/feedback"
)

// Action is a row mutation that needs confirmation.
type Action string

const (
	ActionDelete       Action = "delete"
	ActionToggleStatus Action = "toggle_status"
)

var (
	ErrNoPendingConfirmation = errors.New("no pending confirmation")
	ErrUnsupportedAction     = errors.New("action not supported for this list")
	ErrMissingID             = errors.New("item id is required")
	ErrClosed                = errors.New("list view closed")
)

// Confirmation is a mutation waiting for the user to confirm it.
type Confirmation struct {
	Action Action `json:"action"`
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Prompt string `json:"prompt"`
}

func prompt(action Action, id, label string) string {
	name := label
	if name == "" {
		name = id
	}
	if action == ActionDelete {
		return fmt.Sprintf("Bạn có chắc chắn muốn xóa %s?", name)
	}
	return fmt.Sprintf("Bạn có chắc chắn muốn thay đổi trạng thái của %s?", name)
}

// Supports reports whether the list's backend accepts action.
func (c *Controller[T]) Supports(action Action) bool {
	if c.mut == nil {
		return false
	}
	caps, ok := c.mut.(Capabilities)
	switch action {
	case ActionDelete:
		return !ok || caps.CanDelete()
	case ActionToggleStatus:
		return !ok || caps.CanToggleStatus()
	default:
		return false
	}
}

// RequestDelete opens a delete confirmation for one row. label is what the prompt
// calls the row; the id is used when it is empty.
func (c *Controller[T]) RequestDelete(id, label string) (Confirmation, error) {
	return c.request(ActionDelete, id, label)
}

// RequestToggleStatus opens an activate/deactivate confirmation for one row.
func (c *Controller[T]) RequestToggleStatus(id, label string) (Confirmation, error) {
	return c.request(ActionToggleStatus, id, label)
}

// request replaces any confirmation already open; only one dialog exists per list.
func (c *Controller[T]) request(action Action, id, label string) (Confirmation, error) {
	if !c.Supports(action) {
		return Confirmation{}, fmt.Errorf("%w: %s", ErrUnsupportedAction, action)
	}
	id, label = strings.TrimSpace(id), strings.TrimSpace(label)
	if id == "" {
		return Confirmation{}, ErrMissingID
	}
	conf := Confirmation{Action: action, ID: id, Label: label, Prompt: prompt(action, id, label)}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Confirmation{}, ErrClosed
	}
	c.pending = &conf
	return conf, nil
}

// Pending returns the open confirmation, if any.
func (c *Controller[T]) Pending() (Confirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return Confirmation{}, false
	}
	return *c.pending, true
}

// Cancel closes the open confirmation without doing anything.
func (c *Controller[T]) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return ErrNoPendingConfirmation
	}
	c.pending = nil
	return nil
}

// Confirm runs the open confirmation. On success the list is refetched once and a
// success toast is shown; on failure an error toast is shown and nothing is refetched.
// The dialog is closed either way.
func (c *Controller[T]) Confirm(ctx context.Context) (Confirmation, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Confirmation{}, ErrClosed
	}
	p := c.pending
	c.pending = nil
	c.mu.Unlock()
	if p == nil {
		return Confirmation{}, ErrNoPendingConfirmation
	}
	conf := *p

	var err error
	switch conf.Action {
	case ActionDelete:
		err = c.mut.Delete(ctx, conf.ID)
	case ActionToggleStatus:
		err = c.mut.ToggleStatus(ctx, conf.ID)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedAction, conf.Action)
	}
	c.obs.MutationCompleted(c.resource, conf.Action, err == nil)

	if err != nil {
		c.log.Warn().Err(err).Str("action", string(conf.Action)).Str("id", conf.ID).Msg("mutation failed")
		c.toast(feedback.LevelError, feedback.Humanize(err))
		return conf, err
	}

	c.log.Info().Str("action", string(conf.Action)).Str("id", conf.ID).Msg("mutation applied")
	msg := feedback.MsgStatusChanged
	if conf.Action == ActionDelete {
		msg = feedback.MsgDeleted
	}
	c.toast(feedback.LevelSuccess, msg)
	c.Refresh()
	return conf, nil
}
