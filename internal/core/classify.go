package core

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// UnknownClient is the client name given to records with no source name.
const UnknownClient = "(unknown)"

//go:embed rules.yaml
var defaultRulesYAML []byte

// defaultRules is parsed once at init; a broken embedded table is a build defect.
var defaultRules = mustParseRules(defaultRulesYAML)

// ClientRule maps any of its substrings to one canonical client name.
type ClientRule struct {
	Match     []string `yaml:"match"`
	Canonical string   `yaml:"canonical"`
}

// RuleSet is an ordered client-name rule table.
type RuleSet struct {
	rules []ClientRule
}

type rulesFile struct {
	Rules []ClientRule `yaml:"rules"`
}

// DefaultRules returns the built-in rule table.
func DefaultRules() *RuleSet {
	return defaultRules
}

// LoadRules reads a rule table from a YAML file with the same layout as
// the built-in rules.yaml.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return rs, nil
}

// ParseRules decodes and validates a YAML rule table.
// Substrings are lowercased so they compare against lowercased input.
func ParseRules(data []byte) (*RuleSet, error) {
	var f rulesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("%w: no rules defined", ErrInvalidRules)
	}

	var errs []string
	for i, r := range f.Rules {
		if strings.TrimSpace(r.Canonical) == "" {
			errs = append(errs, fmt.Sprintf("rule %d: empty canonical name", i+1))
		}
		if len(r.Match) == 0 {
			errs = append(errs, fmt.Sprintf("rule %d (%s): no match substrings", i+1, r.Canonical))
		}
		for j, m := range r.Match {
			m = strings.ToLower(strings.TrimSpace(norm.NFC.String(m)))
			if m == "" {
				errs = append(errs, fmt.Sprintf("rule %d (%s): empty match substring", i+1, r.Canonical))
			}
			f.Rules[i].Match[j] = m
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w:\n  - %s", ErrInvalidRules, strings.Join(errs, "\n  - "))
	}

	return &RuleSet{rules: f.Rules}, nil
}

// WriteRules writes rs in the layout read by LoadRules.
func WriteRules(w io.Writer, rs *RuleSet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rulesFile{Rules: rs.Rules()}); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return enc.Close()
}

func mustParseRules(data []byte) *RuleSet {
	rs, err := ParseRules(data)
	if err != nil {
		panic(fmt.Sprintf("embedded client rules: %v", err))
	}
	return rs
}

// Rules returns a copy of the rule table in match order.
func (rs *RuleSet) Rules() []ClientRule {
	out := make([]ClientRule, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = ClientRule{Match: append([]string(nil), r.Match...), Canonical: r.Canonical}
	}
	return out
}

// Normalize maps a raw client name to its canonical name.
//
// Empty input yields UnknownClient. Otherwise the lowercased, trimmed input
// is tested against each rule in order and the first rule with a contained
// substring wins. With no match the trimmed input is returned as is, which
// for whitespace-only input is "".
func (rs *RuleSet) Normalize(name string) string {
	if name == "" {
		return UnknownClient
	}

	key := strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
	for _, r := range rs.rules {
		for _, m := range r.Match {
			if strings.Contains(key, m) {
				return r.Canonical
			}
		}
	}

	return strings.TrimSpace(name)
}

// NormalizeClientName normalizes name with the built-in rule table.
func NormalizeClientName(name string) string {
	return defaultRules.Normalize(name)
}

// IsLicensed reports whether a user row carries a license: the license
// column is non-empty and not "Unlicensed" in any casing.
func IsLicensed(row Row) bool {
	v := strings.ToLower(strings.TrimSpace(row.Lookup(LicenseColumns...)))
	return v != "" && v != "unlicensed"
}
