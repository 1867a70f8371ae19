package frostflake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		input    string
		expected string
	}{
		{name: "no expressions", input: "strategy: locked", expected: "strategy: locked"},
		{name: "single expression", env: map[string]string{"FF_NODE": "7"}, input: "node: ${env.FF_NODE}", expected: "node: 7"},
		{name: "multiple expressions", env: map[string]string{"A": "1", "B": "2"}, input: "${env.A}-${env.B}-${env.A}", expected: "1-2-1"},
		{name: "unset variable becomes empty", input: "unset=${env.FF_NOTSET}-end", expected: "unset=-end"},
		{name: "missing closing brace", env: map[string]string{"X": "x"}, input: "start ${env.X and ${env.Y} end", expected: "start ${env.X and  end"},
		{name: "invalid key keeps prefix", env: map[string]string{"Z": "z"}, input: "${env.a-b} ${env.Z}", expected: "${env.a-b} z"},
		{name: "prefix only no key", input: "oops ${env.} done", expected: "oops  done"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expected, expandEnv(tc.input))
		})
	}
}
