package tubi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceBareUndefined(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"value", `{"a":undefined}`, `{"a":null}`},
		{"array", `[undefined,1,undefined]`, `[null,1,null]`},
		{"inside string", `{"a":"undefined"}`, `{"a":"undefined"}`},
		{"escaped quote in string", `{"a":"x\"undefined"}`, `{"a":"x\"undefined"}`},
		{"longer identifier", `{"a":undefinedness}`, `{"a":undefinedness}`},
		{"prefixed identifier", `{"a":isundefined}`, `{"a":isundefined}`},
		{"none", `{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replaceBareUndefined(tt.in))
		})
	}
}

func TestUnwrapDateConstructor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"t":new Date("2024-10-08T01:00:00.000Z")}`, `{"t":"2024-10-08T01:00:00.000Z"}`},
		{`[new Date(""),new Date("x")]`, `["","x"]`},
		{`{"t":"new Date(\"x\")"}`, `{"t":"new Date(\"x\")"}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unwrapDateConstructor(tt.in))
	}
}

func TestRepairProducesJSON(t *testing.T) {
	in := `{"a":undefined,"b":new Date("2024-01-01T00:00:00Z"),"c":"undefined"}`
	out := Repair(in)
	var v map[string]any
	assert.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Nil(t, v["a"])
	assert.Equal(t, "2024-01-01T00:00:00Z", v["b"])
	assert.Equal(t, "undefined", v["c"])
}

func TestRepairRulesNamed(t *testing.T) {
	names := map[string]bool{}
	for _, r := range RepairRules {
		names[r.Name] = true
	}
	assert.True(t, names["undefined"])
	assert.True(t, names["date-constructor"])
}
