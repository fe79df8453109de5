package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gorm.io/datatypes"
)

func TestStringListRoundTrip(t *testing.T) {
	got := StringListValue(StringList([]string{"a", "b", "c"}))
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStringListEncodesNilAsEmptyArray(t *testing.T) {
	if got := string(StringList(nil)); got != "[]" {
		t.Errorf("expected empty array, got %s", got)
	}
}

func TestStringListValueToleratesBrokenColumn(t *testing.T) {
	cases := []datatypes.JSON{
		nil,
		datatypes.JSON("not json"),
		datatypes.JSON("null"),
		datatypes.JSON(`{"k":"v"}`),
	}
	for _, c := range cases {
		if diff := cmp.Diff([]string{}, StringListValue(c)); diff != "" {
			t.Errorf("column %q: (-want +got):\n%s", string(c), diff)
		}
	}
}
