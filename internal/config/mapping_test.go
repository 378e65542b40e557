package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMappingPreservesOrder(t *testing.T) {
	t.Parallel()

	var m Mapping[int]
	require.NoError(t, yaml.Unmarshal([]byte("zeta: 1\nalpha: 2\nmid: 3\n"), &m))
	require.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())

	v, ok := m.Get("alpha")
	require.True(t, ok)
	require.Equal(t, 2, v)
	require.Equal(t, 2, m[1].Line)

	_, ok = m.Get("missing")
	require.False(t, ok)
}

func TestMappingRejectsNonMapping(t *testing.T) {
	t.Parallel()

	var m Mapping[string]
	err := yaml.Unmarshal([]byte("- a\n- b\n"), &m)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected a mapping")
}

func TestMappingSetKeepsPositionAndCopies(t *testing.T) {
	t.Parallel()

	base := Mapping[string]{{Key: "text", Value: "gray.900"}, {Key: "border", Value: "gray.200"}}

	replaced := base.Set("text", "gray.800")
	require.Equal(t, []string{"text", "border"}, replaced.Keys())
	require.Equal(t, "gray.800", replaced[0].Value)
	require.Equal(t, "gray.900", base[0].Value)

	appended := base.Set("primary", "blue.500")
	require.Equal(t, []string{"text", "border", "primary"}, appended.Keys())
	require.Len(t, base, 2)
	require.True(t, appended.Has("primary"))
}
