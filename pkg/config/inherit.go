package config

import (
	"fmt"
	"sort"
	"strings"

	"dario.cat/mergo"
)

// Defaults is the document section holding shared values. Its keys are
// scoped as "*.field.path" to reach every env or "<env>.field.path" to
// reach one, with dotted paths creating nested maps in the target.
const Defaults = "defaults"

type defaultsEntry struct {
	key   string
	scope string
	path  []string
	value interface{}
}

// applyInheritance resolves the defaults section into the env sections
// and returns the result without the defaults section. Env-scoped
// entries win over "*" entries, and values set explicitly in an env
// section are never overwritten.
func applyInheritance(doc map[string]map[string]interface{}) (map[string]map[string]interface{}, error) {
	out := make(map[string]map[string]interface{}, len(doc))
	for name, section := range doc {
		if name == Defaults {
			continue
		}
		out[name] = deepCopySection(section)
	}

	var scoped, wildcard []defaultsEntry
	for key, value := range doc[Defaults] {
		scope, path, err := splitDefaultsKey(key)
		if err != nil {
			return nil, err
		}
		entry := defaultsEntry{key: key, scope: scope, path: path, value: value}
		if scope == "*" {
			wildcard = append(wildcard, entry)
		} else {
			scoped = append(scoped, entry)
		}
	}
	// Shorter paths fill first, so the outcome does not depend on map
	// iteration order when entries overlap.
	sortEntries(scoped)
	sortEntries(wildcard)

	for _, entry := range scoped {
		if section, ok := out[entry.scope]; ok {
			fillPath(section, entry.path, entry.value)
		}
	}
	for _, entry := range wildcard {
		for name := range out {
			fillPath(out[name], entry.path, entry.value)
		}
	}
	return out, nil
}

func sortEntries(entries []defaultsEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
}

func splitDefaultsKey(key string) (scope string, path []string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return "", nil, fmt.Errorf("defaults entry %q must be scoped as \"*.field\" or \"<env>.field\"", key)
	}
	for _, part := range parts {
		if part == "" {
			return "", nil, fmt.Errorf("defaults entry %q has an empty path segment", key)
		}
	}
	return parts[0], parts[1:], nil
}

// fillPath sets the value at the dotted path unless something is already
// there. Intermediate maps are created as needed; a non-map intermediate
// means the env holds an explicit value, which wins.
func fillPath(section map[string]interface{}, path []string, value interface{}) {
	for _, part := range path[:len(path)-1] {
		next, ok := section[part]
		if !ok {
			child := map[string]interface{}{}
			section[part] = child
			section = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return
		}
		section = child
	}
	leaf := path[len(path)-1]
	if _, ok := section[leaf]; !ok {
		section[leaf] = deepCopyValue(value)
	}
}

// mergeSections deep-merges the secret sections over the non-secret
// ones. Secret values win on conflict.
func mergeSections(data, secret map[string]map[string]interface{}) (map[string]map[string]interface{}, error) {
	merged := make(map[string]map[string]interface{}, len(data))
	for name, section := range data {
		merged[name] = deepCopySection(section)
	}
	for name, section := range secret {
		dst, ok := merged[name]
		if !ok {
			merged[name] = deepCopySection(section)
			continue
		}
		if err := mergo.Merge(&dst, section, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge secret data for env %s: %w", name, err)
		}
		merged[name] = dst
	}
	return merged, nil
}

func deepCopySection(section map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(section))
	for k, v := range section {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return deepCopySection(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = deepCopyValue(elem)
		}
		return out
	default:
		return v
	}
}

// copyDocument flattens a two-level document into a JSON-friendly map.
func copyDocument(doc map[string]map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for name, section := range doc {
		out[name] = deepCopySection(section)
	}
	return out
}
