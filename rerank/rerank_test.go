package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/pkg/utils"
)

func cityItems(cities ...string) []*core.Item {
	out := make([]*core.Item, len(cities))
	for i, c := range cities {
		it := core.NewItem(string(rune('a' + i)))
		if c != "" {
			it.PutLabel("city", utils.Label{Value: c, Source: "dataset"})
		}
		out[i] = it
	}
	return out
}

func ids(in []*core.Item) string {
	s := ""
	for _, it := range in {
		s += it.ID
	}
	return s
}

func TestTopN(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "abcd"},
		{-1, "abcd"},
		{2, "ab"},
		{4, "abcd"},
		{10, "abcd"},
	}
	for _, tt := range tests {
		out, err := (&TopNNode{N: tt.n}).Process(context.Background(), nil, cityItems("", "", "", ""))
		if err != nil {
			t.Fatal(err)
		}
		if got := ids(out); got != tt.want {
			t.Errorf("N=%d: got %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDiversity(t *testing.T) {
	in := cityItems("x", "x", "y", "x", "", "y", "y")
	tests := []struct {
		max  int
		want string
	}{
		{0, "ace"},
		{1, "ace"},
		{2, "abcef"},
		{3, "abcdefg"},
	}
	for _, tt := range tests {
		out, err := (&Diversity{MaxPerGroup: tt.max}).Process(context.Background(), nil, in)
		if err != nil {
			t.Fatal(err)
		}
		if got := ids(out); got != tt.want {
			t.Errorf("max=%d: got %q, want %q", tt.max, got, tt.want)
		}
	}
}

func TestDiversityMetaFallback(t *testing.T) {
	in := []*core.Item{core.NewItem("a"), core.NewItem("b"), core.NewItem("c")}
	in[0].Meta["country_id"] = 1
	in[1].Meta["country_id"] = 1
	in[2].Meta["country_id"] = 2
	out, _ := (&Diversity{LabelKey: "country_id"}).Process(context.Background(), nil, in)
	if got := ids(out); got != "ac" {
		t.Errorf("got %q, want %q", got, "ac")
	}
}
