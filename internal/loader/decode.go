package loader

import (
	"fmt"
	"strings"
	"unicode"
)

// DecodeSubjects turns a permitted-subjects cell into subject ids.
// Every non-space character is an id ("ABD"); a comma-separated cell ("Math, Art") keeps whole tokens.
func DecodeSubjects(raw string) []string {
	return splitCompact(raw)
}

// DecodeSlots turns an availability cell into slot ids. Compact cells must be digits only ("135").
func DecodeSlots(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.Contains(trimmed, ",") {
		return splitCompact(trimmed), nil
	}
	slots := make([]string, 0, len(trimmed))
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsDigit(r) {
			return nil, fmt.Errorf("availability %q contains non-digit %q", raw, r)
		}
		slots = appendUnique(slots, string(r))
	}
	return slots, nil
}

func splitCompact(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	var ids []string
	if strings.Contains(trimmed, ",") {
		for _, part := range strings.Split(trimmed, ",") {
			if id := strings.TrimSpace(part); id != "" {
				ids = appendUnique(ids, id)
			}
		}
		return ids
	}
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		ids = appendUnique(ids, string(r))
	}
	return ids
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
