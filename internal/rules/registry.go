package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateRule is returned when a second rule claims a registered name.
var ErrDuplicateRule = errors.New("duplicate rule name")

// Registry keeps rules in registration order. Only enabled flags change after
// startup; flag updates made through SetRuleStates are never observed half
// applied by EnabledRules or RuleStates.
type Registry struct {
	mu    sync.RWMutex
	rules []Rule
	index map[string]int // name -> position in rules
}

func NewRegistry() *Registry {
	return &Registry{index: map[string]int{}}
}

// Default returns a registry holding the built-in rules, all enabled.
func Default() *Registry {
	r := NewRegistry()
	for _, rule := range builtins() {
		r.MustRegister(rule)
	}
	return r
}

func builtins() []Rule {
	return []Rule{
		newTodoRule(),
		newConsoleLoggingRule(),
		newSQLConcatRule(),
		newLongLineRule(),
		newUnmatchedBracesRule(),
		newEmptyCatchRule(),
		newHardcodedSecretRule(),
		newNestedLoopRule(),
		newStringConcatInLoopRule(),
		newUnreachableRule(),
		newInfiniteLoopRule(),
		newUnusedVariableRule(),
		newUnusedImportRule(),
	}
}

func (r *Registry) Register(rule Rule) error {
	name := rule.Name()
	if name == "" {
		return errors.New("rule name is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, name)
	}
	r.rules = append(r.rules, rule)
	r.index[name] = len(r.rules) - 1
	return nil
}

func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// EnabledRules returns the enabled rules in registration order.
func (r *Registry) EnabledRules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		if rule.Enabled() {
			out = append(out, rule)
		}
	}
	return out
}

// List returns every registered rule in registration order.
func (r *Registry) List() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Rule(nil), r.rules...)
}

func (r *Registry) Get(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.rules[i], true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// RuleStates returns name -> enabled for every rule, in registration order.
func (r *Registry) RuleStates() States {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(States, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, State{Name: rule.Name(), Enabled: rule.Enabled()})
	}
	return out
}

// SetRuleStates applies the updates whose names are registered. Unknown names
// are ignored. It returns the names that matched, in registration order.
func (r *Registry) SetRuleStates(updates map[string]bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var applied []string
	for _, rule := range r.rules {
		on, ok := updates[rule.Name()]
		if !ok {
			continue
		}
		rule.SetEnabled(on)
		applied = append(applied, rule.Name())
	}
	return applied
}

type State struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// States is an ordered name -> enabled mapping. It encodes as a JSON object
// whose keys keep registration order.
type States []State

func (s States) Map() map[string]bool {
	m := make(map[string]bool, len(s))
	for _, st := range s {
		m[st.Name] = st.Enabled
	}
	return m
}

func (s States) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, st := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(st.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if st.Enabled {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
