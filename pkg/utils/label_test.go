package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		old, new Label
		want     Label
	}{
		{"empty existing", Label{}, Label{"a", "x"}, Label{"a", "x"}},
		{"empty incoming", Label{"a", "x"}, Label{}, Label{"a", "x"}},
		{"same source", Label{"a", "x"}, Label{"b", "x"}, Label{"a|b", "x"}},
		{"different source", Label{"a", "x"}, Label{"b", "y"}, Label{"a|b", "x,y"}},
		{"no existing source", Label{"a", ""}, Label{"b", "y"}, Label{"a|b", "y"}},
	}
	for _, tt := range tests {
		if got := MergeLabel(tt.old, tt.new); got != tt.want {
			t.Errorf("%s: MergeLabel = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
