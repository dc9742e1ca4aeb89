package core

import (
	"bytes"
	"errors"
	"reflect"
	"os"
	"path/filepath"
	"testing"
)

// ----------------------------------------------------------------------------
// IsLicensed Tests
// ----------------------------------------------------------------------------

func TestIsLicensed(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want bool
	}{
		{"license name", Row{"Licenses": "Microsoft 365 E5"}, true},
		{"lowercase column", Row{"licenses": "Exchange Online (Plan 1)"}, true},
		{"unlicensed", Row{"Licenses": "Unlicensed"}, false},
		{"unlicensed any casing", Row{"Licenses": "UNLICENSED"}, false},
		{"unlicensed padded", Row{"Licenses": "  unLicensed \t"}, false},
		{"empty", Row{"Licenses": ""}, false},
		{"whitespace only", Row{"Licenses": "   "}, false},
		{"missing column", Row{"Display name": "Jane"}, false},
		{"empty primary falls back", Row{"Licenses": "", "licenses": "Visio Plan 2"}, true},
		{"not an exact unlicensed", Row{"Licenses": "Unlicensed; Teams"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLicensed(tt.row); got != tt.want {
				t.Errorf("IsLicensed(%v) = %v, want %v", tt.row, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// NormalizeClientName Tests
// ----------------------------------------------------------------------------

func TestNormalizeClientName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ALLIANT Corp", "Alliant"},
		{"alliant corp", "Alliant"},
		{"  Alliant  ", "Alliant"},
		{"Greyhill Inc", "Greyhill"},
		{"Denver Employee Retirement Plan", "DERP"},
		{"DERP", "DERP"},
		{"The HarperGroup", "Harper Group"},
		{"harper group llc", "Harper Group"},
		{"New Direction Trust Co", "NDTCO"},
		{"Power Technologies", "PowerTech"},
		{"University of New Mexico Foundation", "UNMF"},
		{"Town of Avon", "Town of Avon"},
		{"Antonoff and Company", "Antonoff & Co"},
		{"Boulder Property Mgmt", "Boulder Property Management"},
		{"Foo Bar LLC", "Foo Bar LLC"},
		{"  Foo Bar LLC  ", "Foo Bar LLC"},
		{"", UnknownClient},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeClientName(tt.input); got != tt.want {
				t.Errorf("NormalizeClientName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeClientName_Deterministic(t *testing.T) {
	inputs := []string{"ALLIANT Corp", "alliant corp", "Alliant CORP"}
	for _, in := range inputs {
		if got := NormalizeClientName(in); got != "Alliant" {
			t.Errorf("NormalizeClientName(%q) = %q, want Alliant", in, got)
		}
	}
	if NormalizeClientName("Zed Co") != NormalizeClientName("Zed Co") {
		t.Error("NormalizeClientName is not deterministic")
	}
}

func TestNormalizeClientName_FirstRuleWins(t *testing.T) {
	// "alliant" precedes "greyhill" in the table.
	if got := NormalizeClientName("Greyhill Alliant Holdings"); got != "Alliant" {
		t.Errorf("got %q, want Alliant", got)
	}
	// "keystone" precedes "pure cycle".
	if got := NormalizeClientName("Pure Cycle Keystone"); got != "KeyStone" {
		t.Errorf("got %q, want KeyStone", got)
	}
}

func TestNormalizeClientName_UnicodeForms(t *testing.T) {
	rs, err := ParseRules([]byte("rules:\n  - match: [\"caf\u00e9\"]\n    canonical: Cafe Group\n"))
	if err != nil {
		t.Fatalf("ParseRules() error = %v", err)
	}

	// Precomposed and decomposed (e + U+0301) spellings match the same rule.
	for _, in := range []string{"Caf\u00e9 Downtown", "CAFE\u0301 Downtown", "Cafe\u0301 Downtown"} {
		if got := rs.Normalize(in); got != "Cafe Group" {
			t.Errorf("Normalize(%q) = %q, want Cafe Group", in, got)
		}
	}
}

func TestDefaultRules_Order(t *testing.T) {
	rules := DefaultRules().Rules()
	if len(rules) != 26 {
		t.Fatalf("len(rules) = %d, want 26", len(rules))
	}
	if rules[0].Canonical != "Alliant" {
		t.Errorf("first rule = %q, want Alliant", rules[0].Canonical)
	}
	if rules[len(rules)-1].Canonical != "Betawest" {
		t.Errorf("last rule = %q, want Betawest", rules[len(rules)-1].Canonical)
	}

	// Rules returns a copy.
	rules[0].Canonical = "changed"
	rules[0].Match[0] = "changed"
	if got := NormalizeClientName("alliant"); got != "Alliant" {
		t.Errorf("mutating Rules() leaked into the table: %q", got)
	}
}

// ----------------------------------------------------------------------------
// ParseRules / LoadRules Tests
// ----------------------------------------------------------------------------

func TestParseRules_LowercasesSubstrings(t *testing.T) {
	rs, err := ParseRules([]byte("rules:\n  - match: [\" ACME \", \"Road Runner\"]\n    canonical: ACME\n"))
	if err != nil {
		t.Fatalf("ParseRules() error = %v", err)
	}
	if got := rs.Normalize("acme widgets"); got != "ACME" {
		t.Errorf("Normalize = %q, want ACME", got)
	}
	if got := rs.Normalize("ROAD RUNNER supply"); got != "ACME" {
		t.Errorf("Normalize = %q, want ACME", got)
	}
}

func TestParseRules_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty document", ""},
		{"no rules", "rules: []\n"},
		{"missing canonical", "rules:\n  - match: [\"x\"]\n"},
		{"missing match", "rules:\n  - canonical: X\n"},
		{"blank substring", "rules:\n  - match: [\"  \"]\n    canonical: X\n"},
		{"unknown field", "rules:\n  - match: [\"x\"]\n    canonical: X\n    priority: 1\n"},
		{"not yaml", "rules: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.yaml))
			if err == nil {
				t.Fatal("ParseRules() expected error")
			}
			if !errors.Is(err, ErrInvalidRules) {
				t.Errorf("error %v should wrap ErrInvalidRules", err)
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := "rules:\n  - match: [\"globex\"]\n    canonical: Globex\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if got := rs.Normalize("Globex Corporation"); got != "Globex" {
		t.Errorf("Normalize = %q, want Globex", got)
	}
	// The override replaces the built-in table entirely.
	if got := rs.Normalize("Alliant Corp"); got != "Alliant Corp" {
		t.Errorf("Normalize = %q, want unchanged input", got)
	}

	if _, err := LoadRules(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadRules() expected error for missing file")
	}
}

func TestWriteRules_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRules(&buf, DefaultRules()); err != nil {
		t.Fatalf("WriteRules() error = %v", err)
	}

	parsed, err := ParseRules(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseRules(WriteRules()) error = %v\n%s", err, buf.String())
	}
	if !reflect.DeepEqual(parsed.Rules(), DefaultRules().Rules()) {
		t.Error("rules changed after a write and parse round trip")
	}
}
