package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/braidtask/braid/internal/config"
)

// resolveTaskID expands user input into a full task id. Exact match wins,
// then the configured id prefix is prepended ("x7k2" becomes "t-x7k2"),
// then a unique prefix of a full id is accepted.
func resolveTaskID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("task id is required")
	}

	if taskStore.Has(input) {
		return input, nil
	}

	prefixed := config.IDPrefix() + "-" + input
	if taskStore.Has(prefixed) {
		return prefixed, nil
	}

	var matches []string
	for _, t := range taskStore.Snapshot() {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task %s not found", input)
	case 1:
		return matches[0], nil
	}
	sort.Strings(matches)
	return "", fmt.Errorf("ambiguous task id %s matches %s", input, strings.Join(matches, ", "))
}
