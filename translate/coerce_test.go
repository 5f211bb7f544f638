package translate

import (
	"reflect"
	"testing"
)

/*
 * Test the literal coercion ladder. The expected values carry
 * their types, so an integer result can't pass as a float
 * or a string
 */
func TestCoerceValue(t *testing.T) {

	tables := []struct {
		raw  string
		want interface{}
	}{
		{"25", 25},
		{"-3", -3},
		{"0", 0},
		{"75.5", 75.5},
		{"-0.25", -0.25},
		{".5", 0.5},
		{"1e3", 1000.0},
		{"9999999999999999999999", 1e22},
		{"10.10.10.10", "10.10.10.10"},
		{"2024-01-02", "2024-01-02"},
		{"active", "active"},
		{"New York", "New York"},
		{"", ""},
		{"0x10", "0x10"},
		{"Inf", "Inf"},
		{"-inf", "-inf"},
		{"NaN", "NaN"},
	}

	for _, table := range tables {
		got := CoerceValue(table.raw)

		if !reflect.DeepEqual(got, table.want) {
			t.Errorf("Invalid coercion of '%s': %#v (%T), expected: %#v (%T)",
				table.raw, got, got, table.want, table.want)
		}
	}
}
