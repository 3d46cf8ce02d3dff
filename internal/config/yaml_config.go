package config

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

// updateYamlKey updates a key in yaml content, handling commented-out keys.
// If the key exists (commented or not), it updates it in place; otherwise it
// appends the key at the end.
func updateYamlKey(content, key, value string) string {
	formattedValue := formatYamlValue(value)
	newLine := fmt.Sprintf("%s: %s", key, formattedValue)

	// Matches "key: value" or "# key: value" with optional leading whitespace
	keyPattern := regexp.MustCompile(`^(\s*)(#\s*)?` + regexp.QuoteMeta(key) + `\s*:`)

	found := false
	var result []string

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		matches := keyPattern.FindStringSubmatch(line)
		if matches == nil {
			result = append(result, line)
			continue
		}
		if found {
			// Later occurrences: keep commented ones (they are notes),
			// drop live ones (duplicate yaml keys would win over ours).
			if matches[2] != "" {
				result = append(result, line)
			}
			continue
		}
		result = append(result, matches[1]+newLine)
		found = true
	}

	if !found {
		if len(result) > 0 && result[len(result)-1] != "" {
			result = append(result, "")
		}
		result = append(result, newLine)
	}

	return strings.Join(result, "\n") + "\n"
}

// formatYamlValue formats a value appropriately for YAML.
func formatYamlValue(value string) string {
	lower := strings.ToLower(value)
	if lower == "true" || lower == "false" {
		return lower
	}

	if isNumeric(value) {
		return value
	}

	if needsQuoting(value) {
		return fmt.Sprintf("%q", value)
	}

	return value
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '-' && i == 0 {
			continue
		}
		if c == '.' {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func needsQuoting(s string) bool {
	// Quote if contains special YAML characters
	special := []string{":", "#", "[", "]", "{", "}", ",", "&", "*", "!", "|", ">", "'", "\"", "%", "@", "`"}
	for _, c := range special {
		if strings.Contains(s, c) {
			return true
		}
	}
	// Quote if starts/ends with whitespace
	if strings.TrimSpace(s) != s {
		return true
	}
	return false
}
