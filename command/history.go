package command

import (
	"slices"

	"go.uber.org/zap"

	"honnef.co/go/vgc/scene"
)

// History owns a scene and the stack of commands executed on it.
//
// Commands below the index have been executed; commands at or above it have
// been undone and can be redone. Executing a new command discards everything
// that can be redone.
type History struct {
	scene  *scene.Scene
	stack  []Command
	index  int
	limit  int
	logger *zap.Logger
}

type Option func(*History)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *zap.Logger) Option {
	return func(h *History) { h.logger = l }
}

// WithLimit bounds the number of commands kept. Once the stack grows beyond
// n, the oldest commands are dropped and can no longer be undone. Zero means
// unlimited.
func WithLimit(n int) Option {
	return func(h *History) { h.limit = max(n, 0) }
}

func New(s *scene.Scene, opts ...Option) *History {
	h := &History{scene: s}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// Scene returns the scene commands are applied to. Mutating it directly
// bypasses undo.
func (h *History) Scene() *scene.Scene { return h.scene }

// Len returns the number of commands on the stack.
func (h *History) Len() int { return len(h.stack) }

// Index returns the number of commands that are currently applied.
func (h *History) Index() int { return h.index }

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.stack) }

func (h *History) fields(c Command) []zap.Field {
	return []zap.Field{
		zap.Stringer("scene", h.scene.ID()),
		zap.String("command", Name(c)),
		zap.Int("index", h.index),
		zap.Int("len", len(h.stack)),
	}
}

// Execute runs c and pushes it onto the stack, merging it into the previous
// command when possible. If c fails, the stack is left untouched.
func (h *History) Execute(c Command) error {
	if err := c.Execute(h.scene); err != nil {
		h.logger.Debug("command failed", append(h.fields(c), zap.Error(err))...)
		return err
	}
	clear(h.stack[h.index:])
	h.stack = h.stack[:h.index]
	if h.index > 0 {
		if merged, ok := Merge(h.stack[h.index-1], c); ok {
			h.stack[h.index-1] = merged
			h.logger.Debug("merged command", h.fields(c)...)
			return nil
		}
	}
	h.stack = append(h.stack, c)
	h.index++
	if h.limit > 0 && len(h.stack) > h.limit {
		n := len(h.stack) - h.limit
		h.stack = slices.Delete(h.stack, 0, n)
		h.index -= n
	}
	h.logger.Debug("executed command", h.fields(c)...)
	return nil
}

// Undo reverts the most recently applied command. It does nothing if there
// is none.
func (h *History) Undo() error {
	if h.index == 0 {
		return nil
	}
	c := h.stack[h.index-1]
	if err := c.Undo(h.scene); err != nil {
		h.logger.Debug("undo failed", append(h.fields(c), zap.Error(err))...)
		return err
	}
	h.index--
	h.logger.Debug("undid command", h.fields(c)...)
	return nil
}

// Redo re-applies the most recently undone command. It does nothing if there
// is none.
func (h *History) Redo() error {
	if h.index == len(h.stack) {
		return nil
	}
	c := h.stack[h.index]
	if err := c.Execute(h.scene); err != nil {
		h.logger.Debug("redo failed", append(h.fields(c), zap.Error(err))...)
		return err
	}
	h.index++
	h.logger.Debug("redid command", h.fields(c)...)
	return nil
}
