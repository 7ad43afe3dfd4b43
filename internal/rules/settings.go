package rules

// Settings is the startup rule configuration taken from the config file and
// from persisted toggles.
type Settings struct {
	Disabled  []string        // names switched off by configuration
	Overrides map[string]bool // persisted toggles; applied after Disabled
}

// Apply switches rules according to s. Unknown names are ignored, the same as
// a runtime SetRuleStates call.
func (r *Registry) Apply(s Settings) {
	if len(s.Disabled) > 0 {
		off := make(map[string]bool, len(s.Disabled))
		for _, name := range s.Disabled {
			off[name] = false
		}
		r.SetRuleStates(off)
	}
	if len(s.Overrides) > 0 {
		r.SetRuleStates(s.Overrides)
	}
}

// Disable switches off the named rules and ignores unknown names.
func (r *Registry) Disable(names ...string) {
	r.Apply(Settings{Disabled: names})
}
