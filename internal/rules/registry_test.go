package rules

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jreview/internal/ir"
)

var builtinOrder = []string{
	"todo-comment", "console-logging", "sql-string-concatenation", "long-line",
	"unmatched-braces", "empty-catch", "hardcoded-secret", "nested-loop",
	"string-concat-in-loop", "unreachable-after-return", "infinite-loop",
	"unused-local-variable", "unused-import",
}

func names(states States) []string {
	var out []string
	for _, s := range states {
		out = append(out, s.Name)
	}
	return out
}

func TestDefaultOrderAndEnabled(t *testing.T) {
	reg := Default()
	assert.Equal(t, len(builtinOrder), reg.Len())
	assert.Equal(t, builtinOrder, names(reg.RuleStates()))
	assert.Len(t, reg.EnabledRules(), len(builtinOrder))
	for _, st := range reg.RuleStates() {
		assert.True(t, st.Enabled, st.Name)
	}
}

func TestSetRuleStatesKeepsOrderAndIgnoresUnknown(t *testing.T) {
	reg := Default()
	applied := reg.SetRuleStates(map[string]bool{
		"unused-import": false,
		"todo-comment":  false,
		"not-a-rule":    false,
	})
	assert.Equal(t, []string{"todo-comment", "unused-import"}, applied)

	for i := 0; i < 5; i++ {
		reg.SetRuleStates(map[string]bool{"long-line": i%2 == 0})
	}
	states := reg.RuleStates()
	assert.Equal(t, builtinOrder, names(states))
	m := states.Map()
	assert.False(t, m["todo-comment"])
	assert.False(t, m["unused-import"])
	assert.True(t, m["long-line"])
	assert.NotContains(t, m, "not-a-rule")

	enabled := reg.EnabledRules()
	assert.Len(t, enabled, len(builtinOrder)-2)
	assert.Equal(t, "console-logging", enabled[0].Name())
}

func TestUnknownOnlyUpdateChangesNothing(t *testing.T) {
	reg := Default()
	before := reg.RuleStates()
	assert.Empty(t, reg.SetRuleStates(map[string]bool{"ghost": false}))
	assert.Equal(t, before, reg.RuleStates())
}

func TestRegisterRejectsDuplicatesAndEmptyNames(t *testing.T) {
	reg := Default()
	err := reg.Register(&Func{ID: "long-line", Eval: func(*Context) []ir.Finding { return nil }})
	assert.ErrorIs(t, err, ErrDuplicateRule)
	assert.Error(t, reg.Register(&Func{}))
	assert.Panics(t, func() { reg.MustRegister(&Func{ID: "todo-comment"}) })
	assert.Equal(t, len(builtinOrder), reg.Len())
}

func TestStatesJSONKeepsOrder(t *testing.T) {
	reg := Default()
	reg.Disable("console-logging")
	b, err := json.Marshal(reg.RuleStates())
	require.NoError(t, err)
	assert.Contains(t, string(b), `{"todo-comment":true,"console-logging":false,"sql-string-concatenation":true`)

	var back map[string]bool
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Len(t, back, len(builtinOrder))
}

func TestApplySettings(t *testing.T) {
	reg := Default()
	reg.Apply(Settings{
		Disabled:  []string{"long-line", "nested-loop"},
		Overrides: map[string]bool{"nested-loop": true, "todo-comment": false},
	})
	m := reg.RuleStates().Map()
	assert.False(t, m["long-line"])
	assert.True(t, m["nested-loop"])
	assert.False(t, m["todo-comment"])
}

func TestConcurrentToggleAndRead(t *testing.T) {
	reg := Default()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(on bool) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.SetRuleStates(map[string]bool{"todo-comment": on, "long-line": on})
			}
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				// both flags always move together
				m := reg.RuleStates().Map()
				assert.Equal(t, m["todo-comment"], m["long-line"])
			}
		}()
	}
	wg.Wait()
}
