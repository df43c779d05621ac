package catalogd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleServers = `
[[servers]]
ip = "play.example.jp"
icon = "diamond_block"
name = "Alpha"
description = "Survival"

[[servers]]
ip = "10.0.0.2"
port = 25570
icon = "grass_block"
name = "Beta"
description = ""
`

func TestLoadServers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servers.toml")
	if err := os.WriteFile(path, []byte(sampleServers), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	got, err := LoadServers(path)
	if err != nil {
		t.Fatalf("LoadServers: %v", err)
	}
	port := uint16(25570)
	want := []Server{
		{IP: "play.example.jp", Icon: "diamond_block", Name: "Alpha", Description: "Survival"},
		{IP: "10.0.0.2", Port: &port, Icon: "grass_block", Name: "Beta"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("servers mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadServersMissingFile(t *testing.T) {
	if _, err := LoadServers(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseServersValidation(t *testing.T) {
	cases := map[string]string{
		"missing ip":   "[[servers]]\nname = \"x\"\n",
		"missing name": "[[servers]]\nip = \"1.2.3.4\"\n",
		"bad port":     "[[servers]]\nip = \"1.2.3.4\"\nname = \"x\"\nport = 70000\n",
		"syntax":       "[[servers]\nip = ",
	}
	for name, body := range cases {
		if _, err := ParseServers([]byte(body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseServersEmpty(t *testing.T) {
	got, err := ParseServers(nil)
	if err != nil {
		t.Fatalf("ParseServers: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no servers, got %d", len(got))
	}
}
