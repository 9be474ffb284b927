package substep

import (
	"fmt"

	"github.com/kbukum/rivet/errors"
	"github.com/kbukum/rivet/validation"
)

// Sequence is an ordered list of substeps with unique names.
type Sequence struct {
	items []Substep
}

// NewSequence builds a sequence, rejecting empty or repeated names.
func NewSequence(subs ...Substep) (*Sequence, error) {
	s := &Sequence{items: make([]Substep, 0, len(subs))}
	for _, sub := range subs {
		if err := s.Append(sub); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustSequence is NewSequence for literal sequences known to be valid.
// It panics on error.
func MustSequence(subs ...Substep) *Sequence {
	s, err := NewSequence(subs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of substeps.
func (s *Sequence) Len() int { return len(s.items) }

// All returns a copy of the substeps in order.
func (s *Sequence) All() []Substep {
	out := make([]Substep, len(s.items))
	copy(out, s.items)
	return out
}

// Names returns the substep names in order.
func (s *Sequence) Names() []string {
	names := make([]string, len(s.items))
	for i, sub := range s.items {
		names[i] = sub.Name
	}
	return names
}

// Index returns the position of the substep called name, or -1.
func (s *Sequence) Index(name string) int {
	for i, sub := range s.items {
		if sub.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the substep called name.
func (s *Sequence) Get(name string) (Substep, bool) {
	if i := s.Index(name); i >= 0 {
		return s.items[i], true
	}
	return Substep{}, false
}

// Append adds sub at the end.
func (s *Sequence) Append(sub Substep) error {
	return s.AddHook(sub.Name, sub.Command, len(s.items), sub.Checkpoint)
}

// AddHook inserts a new substep so that it ends up at position index.
// index must lie in [0, Len()]; Len() appends.
func (s *Sequence) AddHook(name, command string, index int, checkpoint bool) error {
	if err := s.checkName(name, -1); err != nil {
		return err
	}
	if index < 0 || index > len(s.items) {
		return errors.InvalidInput("index",
			fmt.Sprintf("hook %q index %d is outside [0, %d]", name, index, len(s.items)))
	}
	s.items = append(s.items, Substep{})
	copy(s.items[index+1:], s.items[index:])
	s.items[index] = Substep{Name: name, Command: command, Checkpoint: checkpoint}
	return nil
}

// ReplaceHook swaps the substep called target for a new one at the same
// position.
func (s *Sequence) ReplaceHook(newName, command, target string, checkpoint bool) error {
	i := s.Index(target)
	if i < 0 {
		return errors.NotFound("substep", target)
	}
	if err := s.checkName(newName, i); err != nil {
		return err
	}
	s.items[i] = Substep{Name: newName, Command: command, Checkpoint: checkpoint}
	return nil
}

// checkName rejects names that cannot appear in a checkpoint file name and
// names already used by a substep other than the one at position except.
func (s *Sequence) checkName(name string, except int) error {
	if name == "" {
		return errors.MissingField("name")
	}
	if !validation.IsIdentifier(name) {
		return errors.InvalidInput("name", fmt.Sprintf("substep name %q is not an identifier", name))
	}
	if i := s.Index(name); i >= 0 && i != except {
		return errors.InvalidInput("name", fmt.Sprintf("substep %q already exists", name))
	}
	return nil
}
