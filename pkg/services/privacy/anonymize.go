package privacy

import (
	"fmt"
	"sort"
	"strings"
)

// AliasMap maps real names to share-safe aliases.
type AliasMap map[string]string

// BuildAliasMap assigns A..Z in first-seen order, then P27, P28 and so on.
func BuildAliasMap(namesInOrder []string) AliasMap {
	m := AliasMap{}
	idx := 0
	for _, name := range namesInOrder {
		if name == "" {
			continue
		}
		if _, ok := m[name]; ok {
			continue
		}
		if idx < 26 {
			m[name] = string(rune('A' + idx))
		} else {
			m[name] = fmt.Sprintf("P%d", idx+1)
		}
		idx++
	}
	return m
}

func (m AliasMap) Name(name string) string {
	if alias, ok := m[name]; ok {
		return alias
	}
	return name
}

// Text replaces every occurrence of every known name, longest names first so a short name
// inside a longer one is not replaced early.
func (m AliasMap) Text(text string) string {
	if text == "" {
		return text
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	out := text
	for _, name := range names {
		out = strings.ReplaceAll(out, name, m[name])
	}
	return out
}
