package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future algorithm migration.
const (
	DomainRuleSet = "fizzbuzz/ruleset/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RuleSetHash computes the content-addressed identity of a rule set.
//
// Two rule sets hash equally iff they would produce the same output for
// every iteration count: name, rules in order, and formatting all take part.
// Strings are NFC normalized first, so visually identical labels written
// with different code point sequences share a hash.
func RuleSetHash(rs RuleSet) (string, error) {
	canonical, err := MarshalCanonical(rs.canonicalMap())
	if err != nil {
		return "", fmt.Errorf("RuleSetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRuleSet, canonical), nil
}

// MustRuleSetHash is like RuleSetHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRuleSetHash(rs RuleSet) string {
	h, err := RuleSetHash(rs)
	if err != nil {
		panic(err)
	}
	return h
}

func (rs RuleSet) canonicalMap() map[string]any {
	rules := make([]any, len(rs.Rules))
	for i, r := range rs.Rules {
		rules[i] = r.canonicalMap()
	}
	return map[string]any{
		"name":  rs.Name,
		"rules": rules,
		"format": map[string]any{
			"separator": rs.Format.Separator,
			"case":      string(rs.Format.Case),
		},
		"ir_version": IRVersion,
	}
}

func (r Rule) canonicalMap() map[string]any {
	m := map[string]any{
		"name":     r.Name,
		"kind":     string(r.Kind),
		"priority": r.Priority,
	}
	switch r.Kind {
	case KindFixed:
		m["token"] = r.Token
		m["divisors"] = nonNil(r.Divisors)
	case KindStreak:
		m["token"] = r.Token
		m["suffix"] = r.Suffix
		m["divisor"] = r.Divisor
		m["rivals"] = nonNil(r.Rivals)
	}
	return m
}

func nonNil(xs []uint32) []uint32 {
	if xs == nil {
		return []uint32{}
	}
	return xs
}
