package menu

import (
	"testing"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/google/go-cmp/cmp"
)

func alpha() catalog.Entry {
	return catalog.Entry{
		Name:          "Alpha",
		PlayersOnline: 10,
		PlayersMax:    20,
		Icon:          "grass_block",
		Description:   "Line1\nLine2",
		VersionName:   "1.20",
		IP:            "1.2.3.4",
		Port:          25565,
		IsOnline:      true,
	}
}

func TestMaterializeAlpha(t *testing.T) {
	got := Materialize([]catalog.Entry{alpha()})
	want := []Descriptor{{
		Icon:   "grass_block",
		Title:  "Alpha [10/20]",
		Lore:   []string{"Version: 1.20", "", "Line1", "Line2"},
		Amount: 10,
		Online: true,
		Action: Transfer{IP: "1.2.3.4", Port: 25565},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestMaterializeFallsBackForUnknownIcon(t *testing.T) {
	e := alpha()
	e.Icon = "not_a_real_icon"
	d := Describe(e)
	if d.Icon != FallbackIcon || !d.IconFallback {
		t.Fatalf("expected flagged fallback icon, got %q (fallback %v)", d.Icon, d.IconFallback)
	}
	e.Icon = ""
	if got := Describe(e).Icon; got != FallbackIcon {
		t.Fatalf("expected fallback icon for empty name, got %q", got)
	}
}

func TestMaterializeIconIsCaseInsensitive(t *testing.T) {
	e := alpha()
	e.Icon = "DIAMOND_SWORD"
	if got := Describe(e).Icon; got != "diamond_sword" {
		t.Fatalf("expected diamond_sword, got %q", got)
	}
	e.Icon = "minecraft:Oak_Log"
	if got := Describe(e).Icon; got != "oak_log" {
		t.Fatalf("expected oak_log, got %q", got)
	}
}

func TestAmountClamps(t *testing.T) {
	cases := map[int64]int{
		-5:  1,
		0:   1,
		1:   1,
		64:  64,
		127: 127,
		128: 127,
		500: 127,
	}
	for online, want := range cases {
		if got := Amount(online); got != want {
			t.Fatalf("Amount(%d) = %d, want %d", online, got, want)
		}
	}
}

func TestLoreWithEmptyDescription(t *testing.T) {
	e := alpha()
	e.Description = ""
	got := Lore(e)
	if diff := cmp.Diff([]string{"Version: 1.20", ""}, got); diff != "" {
		t.Fatalf("lore mismatch (-want +got):\n%s", diff)
	}
}

func TestLoreKeepsBlankDescriptionLines(t *testing.T) {
	e := alpha()
	e.Description = "top\n\nbottom"
	got := Lore(e)
	want := []string{"Version: 1.20", "", "top", "", "bottom"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lore mismatch (-want +got):\n%s", diff)
	}
}

func TestMaterializeIsDeterministicAndOrderPreserving(t *testing.T) {
	a := alpha()
	b := alpha()
	b.Name = "Beta"
	b.PlayersOnline = 0
	c := alpha()
	c.Name = "Alpha"

	input := []catalog.Entry{b, a, c}
	first := Materialize(input)
	second := Materialize(input)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("materialize not deterministic (-first +second):\n%s", diff)
	}
	if len(first) != 3 {
		t.Fatalf("expected duplicates kept, got %d descriptors", len(first))
	}
	if first[0].Title != "Beta [0/20]" || first[1].Title != "Alpha [10/20]" {
		t.Fatalf("order not preserved: %q, %q", first[0].Title, first[1].Title)
	}
}

func TestMaterializeEmpty(t *testing.T) {
	got := Materialize(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestTransferAddr(t *testing.T) {
	if got := (Transfer{IP: "1.2.3.4", Port: 25565}).Addr(); got != "1.2.3.4:25565" {
		t.Fatalf("unexpected addr %q", got)
	}
	if got := (Transfer{IP: "::1", Port: 25566}).Addr(); got != "[::1]:25566" {
		t.Fatalf("unexpected ipv6 addr %q", got)
	}
}
