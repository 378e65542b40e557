package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pair is one entry of an ordered YAML mapping.
type Pair[V any] struct {
	Key   string
	Value V
	Line  int
}

// Mapping is a YAML mapping that remembers declaration order. Token blocks,
// variants and every named scale are emitted in the order the author wrote them.
type Mapping[V any] []Pair[V]

// Tokens maps semantic token names to raw values ("gray.900", "1px solid").
type Tokens = Mapping[string]

// UnmarshalYAML decodes a mapping node pair by pair, rejecting duplicate keys.
func (m *Mapping[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	out := make(Mapping[V], 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if _, dup := seen[key.Value]; dup {
			return fmt.Errorf("line %d: duplicate key %q", key.Line, key.Value)
		}
		seen[key.Value] = struct{}{}

		var v V
		if err := value.Decode(&v); err != nil {
			return err
		}
		out = append(out, Pair[V]{Key: key.Value, Value: v, Line: key.Line})
	}

	*m = out
	return nil
}

// Get returns the value stored under key.
func (m Mapping[V]) Get(key string) (V, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (m Mapping[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in declaration order.
func (m Mapping[V]) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// Set returns a mapping with key bound to value. An existing key keeps its
// position; a new key is appended.
func (m Mapping[V]) Set(key string, value V) Mapping[V] {
	out := make(Mapping[V], len(m), len(m)+1)
	copy(out, m)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Pair[V]{Key: key, Value: value})
}

func hasYAMLKey(node *yaml.Node, key string) bool {
	if node == nil || node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(node.Content); i += 2 {
		k := node.Content[i]
		if strings.EqualFold(k.Value, key) {
			return true
		}
	}
	return false
}
