package engine

import (
	"fmt"
	"strings"
	"sync"
)

// commandRegistry indexes commands by lower-cased name. Namespaces
// disambiguate; without one, the first registered match wins.
type commandRegistry struct {
	mu      sync.RWMutex
	byName  map[string][]Command
	ordered []Command
}

func newCommandRegistry() *commandRegistry {
	return &commandRegistry{byName: make(map[string][]Command)}
}

func (r *commandRegistry) register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(cmd.Name())
	for _, existing := range r.byName[key] {
		if strings.EqualFold(existing.Namespace(), cmd.Namespace()) {
			return fmt.Errorf("command %q already registered", qualified(cmd.Namespace(), cmd.Name()))
		}
	}
	r.byName[key] = append(r.byName[key], cmd)
	r.ordered = append(r.ordered, cmd)
	return nil
}

func (r *commandRegistry) resolve(namespace, name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := r.byName[strings.ToLower(name)]
	if len(candidates) == 0 {
		return nil, false
	}
	if namespace == "" {
		return candidates[0], true
	}
	for _, cmd := range candidates {
		if strings.EqualFold(cmd.Namespace(), namespace) {
			return cmd, true
		}
	}
	return nil, false
}

func (r *commandRegistry) all() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// extensionRegistry holds the globally available extensions.
type extensionRegistry struct {
	mu      sync.RWMutex
	byName  map[string][]Extension
	ordered []Extension
}

func newExtensionRegistry() *extensionRegistry {
	return &extensionRegistry{byName: make(map[string][]Extension)}
}

func (r *extensionRegistry) register(ext Extension) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(ext.Name())
	for _, existing := range r.byName[key] {
		if strings.EqualFold(existing.Namespace(), ext.Namespace()) {
			return fmt.Errorf("extension %q already registered", qualified(ext.Namespace(), ext.Name()))
		}
	}
	r.byName[key] = append(r.byName[key], ext)
	r.ordered = append(r.ordered, ext)
	return nil
}

func (r *extensionRegistry) resolve(namespace, name string) (Extension, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := r.byName[strings.ToLower(name)]
	if len(candidates) == 0 {
		return nil, false
	}
	if namespace == "" {
		return candidates[0], true
	}
	for _, ext := range candidates {
		if strings.EqualFold(ext.Namespace(), namespace) {
			return ext, true
		}
	}
	return nil, false
}

func (r *extensionRegistry) all() []Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Extension, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func qualified(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}
