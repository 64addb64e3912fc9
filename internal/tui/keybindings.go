package tui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"

	"github.com/hay-kot/scout/internal/core/config"
	"github.com/hay-kot/scout/internal/core/record"
	"github.com/hay-kot/scout/internal/core/recent"
	"github.com/hay-kot/scout/internal/query"
	"github.com/hay-kot/scout/pkg/executil"
	"github.com/hay-kot/scout/pkg/tmpl"
)

// ActionType identifies the kind of action a keybinding triggers.
type ActionType int

const (
	ActionTypeNone ActionType = iota
	ActionTypeOpen
	ActionTypeCopy
	ActionTypePreview
	ActionTypeShell
)

// Action represents a resolved keybinding action ready for execution.
type Action struct {
	Type     ActionType
	Key      string
	Help     string
	Text     string // URL to open or text to copy
	ShellCmd string // For shell actions, the rendered command
	Done     string // status shown on success
	Exit     bool   // Exit scout after the action completes
	Err      error  // set when the action could not be prepared
	Entry    recent.Entry
}

// KeybindingHandler resolves keybindings to actions.
type KeybindingHandler struct {
	keybindings map[string]config.Keybinding
	commands    config.Commands
	exec        executil.Executor
	recent      recent.Store
	now         func() time.Time

	// writeClipboard is used when no copy command is configured.
	writeClipboard func(string) error
}

// NewKeybindingHandler creates a new handler. store may be nil to skip
// recording opened records.
func NewKeybindingHandler(keybindings map[string]config.Keybinding, commands config.Commands, exec executil.Executor, store recent.Store) *KeybindingHandler {
	return &KeybindingHandler{
		keybindings:    keybindings,
		commands:       commands,
		exec:           exec,
		recent:         store,
		now:            time.Now,
		writeClipboard: clipboard.WriteAll,
	}
}

// Resolve attempts to resolve a key press to an action for rec.
func (h *KeybindingHandler) Resolve(keyStr string, view record.View, rec query.Record) (Action, bool) {
	kb, exists := h.keybindings[keyStr]
	if !exists {
		return Action{}, false
	}

	action := Action{
		Key:  keyStr,
		Help: helpText(kb),
		Exit: kb.Exit,
	}

	if kb.Sh != "" {
		action.Type = ActionTypeShell
		rendered, err := tmpl.Render(kb.Sh, view.ShellData(rec))
		if err != nil {
			action.Err = err
			return action, true
		}
		action.ShellCmd = rendered
		action.Done = "Ran " + action.Help
		return action, true
	}

	switch kb.Action {
	case config.ActionOpen:
		action.Type = ActionTypeOpen
		action.Text, action.Err = view.Link(rec)
		action.Entry = view.Entry(rec, h.now())
		action.Done = "Opened " + view.Label(rec)
	case config.ActionCopyURL:
		action.Type = ActionTypeCopy
		action.Text, action.Err = view.Link(rec)
		action.Done = "Copied link"
	case config.ActionCopyName:
		action.Type = ActionTypeCopy
		action.Text = view.Label(rec)
		action.Done = "Copied name"
	case config.ActionCopyID:
		action.Type = ActionTypeCopy
		id, ok := rec.ID()
		if !ok {
			action.Err = errors.New("record has no id")
		}
		action.Text = strconv.FormatInt(id, 10)
		action.Done = "Copied id " + action.Text
	case config.ActionPreview:
		action.Type = ActionTypePreview
	default:
		return Action{}, false
	}

	return action, true
}

// Execute runs the given action. Preview actions are handled by the model.
func (h *KeybindingHandler) Execute(ctx context.Context, action Action) error {
	if action.Err != nil {
		return action.Err
	}

	switch action.Type {
	case ActionTypeOpen:
		if err := h.open(ctx, action.Text); err != nil {
			return err
		}
		if h.recent != nil {
			if err := h.recent.Save(ctx, action.Entry); err != nil {
				return fmt.Errorf("save recent: %w", err)
			}
		}
		return nil
	case ActionTypeCopy:
		return h.copy(ctx, action.Text)
	case ActionTypeShell:
		out, err := h.exec.Shell(ctx, action.ShellCmd)
		if err != nil {
			if msg := strings.TrimSpace(string(out)); msg != "" {
				return fmt.Errorf("%w: %s", err, msg)
			}
			return err
		}
		return nil
	default:
		return fmt.Errorf("action type %d not supported by Execute", action.Type)
	}
}

func (h *KeybindingHandler) open(ctx context.Context, url string) error {
	parts := strings.Fields(h.commands.Open)
	if len(parts) == 0 {
		return errors.New("no open command configured")
	}
	args := append(parts[1:len(parts):len(parts)], url)
	_, err := h.exec.Run(ctx, parts[0], args...)
	return err
}

// copy sends text to the configured copy command, or to the system
// clipboard when none is set.
func (h *KeybindingHandler) copy(ctx context.Context, text string) error {
	parts := strings.Fields(h.commands.Copy)
	if len(parts) == 0 {
		return h.writeClipboard(text)
	}
	_, err := h.exec.RunInput(ctx, strings.NewReader(text), parts[0], parts[1:]...)
	return err
}

func helpText(kb config.Keybinding) string {
	if kb.Help != "" {
		return kb.Help
	}
	if kb.Action != "" {
		return kb.Action
	}
	return "shell"
}

// KeyBindings returns key.Binding objects for integration with bubbles help system.
func (h *KeybindingHandler) KeyBindings() []key.Binding {
	keys := slices.Sorted(maps.Keys(h.keybindings))
	bindings := make([]key.Binding, 0, len(keys))

	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, helpText(h.keybindings[k])),
		))
	}

	return bindings
}

// Has reports whether keyStr is bound.
func (h *KeybindingHandler) Has(keyStr string) bool {
	_, ok := h.keybindings[keyStr]
	return ok
}
