package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatPadsColumns(t *testing.T) {
	rows := [][]string{
		{"Address", "play.alpha.jp:25565"},
		{"Players", "3/20"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"Address  play.alpha.jp:25565",
		"Players                 3/20",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatMeasuresWideRunes(t *testing.T) {
	rows := [][]string{
		{"鯖", "x"},
		{"ab", "y"},
		{"abc", "z"},
	}
	got := Format(rows, nil)
	want := []string{
		"鯖   x",
		"ab   y",
		"abc  z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil, nil); got != nil {
		t.Fatalf("expected nil for no rows, got %#v", got)
	}
}

func TestFormatRaggedRowsAndTrailingPadding(t *testing.T) {
	rows := [][]string{
		{"Status", "online", "ok"},
		{"Icon", "grass_block"},
	}
	got := Format(rows, []Alignment{AlignLeft})
	want := []string{
		"Status  online       ok",
		"Icon    grass_block",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}
