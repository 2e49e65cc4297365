package variables

import (
	"encoding/json"
	"testing"
)

func TestOutJSON_WireContract(t *testing.T) {
	// Движок ожидает Json-переменные как сериализованную строку,
	// а не нативное JSON-значение.
	v, err := OutJSON(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire struct {
		Value     any            `json:"value"`
		Type      string         `json:"type"`
		ValueInfo map[string]any `json:"valueInfo"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if wire.Type != "Json" {
		t.Errorf("expected type Json, got %q", wire.Type)
	}
	s, ok := wire.Value.(string)
	if !ok {
		t.Fatalf("value should be a string on the wire, got %T", wire.Value)
	}
	if s != `{"a":1}` {
		t.Errorf(`expected {"a":1} as literal string, got %q`, s)
	}
	if wire.ValueInfo["serializationDataFormat"] != "application/json" {
		t.Errorf("expected serializationDataFormat metadata, got %v", wire.ValueInfo)
	}
}

func TestOutJSON_UnmarshalableValue(t *testing.T) {
	if _, err := OutJSON(func() {}); err == nil {
		t.Error("expected error for a value that cannot be marshaled")
	}
}

func TestOutConstructors(t *testing.T) {
	tests := []struct {
		name     string
		variable OutVariable
		typ      string
		value    any
	}{
		{"string", OutString("x"), "String", "x"},
		{"bool", OutBool(true), "Boolean", true},
		{"integer", OutInteger(7), "Integer", int32(7)},
		{"long", OutLong(1 << 40), "Long", int64(1 << 40)},
		{"double", OutDouble(1.5), "Double", 1.5},
	}

	for _, tt := range tests {
		if tt.variable.Type != tt.typ {
			t.Errorf("%s: expected type %s, got %s", tt.name, tt.typ, tt.variable.Type)
		}
		if tt.variable.Value != tt.value {
			t.Errorf("%s: expected value %v, got %v", tt.name, tt.value, tt.variable.Value)
		}
		if tt.variable.ValueInfo == nil {
			t.Errorf("%s: valueInfo should be an empty map, not nil", tt.name)
		}
		if tt.name != "string" && len(tt.variable.ValueInfo) != 0 {
			t.Errorf("%s: valueInfo should be empty, got %v", tt.name, tt.variable.ValueInfo)
		}
	}
}
