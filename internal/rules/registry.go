package rules

import (
	"fmt"
	"strings"
	"sync"
)

var (
	registry = make(map[string]Check)
	order    []string
	mu       sync.RWMutex
)

// Register adds checks to the suite. Registration order is evaluation order.
func Register(checks ...Check) {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range checks {
		if _, exists := registry[c.ID()]; exists {
			panic(fmt.Sprintf("check %s already registered", c.ID()))
		}
		registry[c.ID()] = c
		order = append(order, c.ID())
	}
}

// List returns every registered check in evaluation order.
func List() []Check {
	mu.RLock()
	defer mu.RUnlock()
	return listLocked()
}

func listLocked() []Check {
	checks := make([]Check, 0, len(order))
	for _, id := range order {
		checks = append(checks, registry[id])
	}
	return checks
}

// Resolve returns the checks named by a comma-separated selector, keeping
// evaluation order. An empty selector selects the whole suite.
func Resolve(selector string) ([]Check, error) {
	mu.RLock()
	defer mu.RUnlock()

	if strings.TrimSpace(selector) == "" {
		return listLocked(), nil
	}

	wanted := make(map[string]struct{})
	for _, id := range strings.Split(selector, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := registry[id]; !ok {
			return nil, fmt.Errorf("check not found: %s", id)
		}
		wanted[id] = struct{}{}
	}

	var selected []Check
	for _, id := range order {
		if _, ok := wanted[id]; ok {
			selected = append(selected, registry[id])
		}
	}
	return selected, nil
}
