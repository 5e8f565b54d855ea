// Package ir provides the data representation of rule sets for fizzbuzz.
//
// This package contains type definitions and their canonical encoding only.
// All other internal packages import ir; ir imports nothing internal. Rule
// files compile into ir values, and the engine turns ir values into
// executable rules.
//
// Key design constraints:
//   - Natural numbers only: divisors, rivals and iteration counts are uint32
//   - A RuleSet is immutable once compiled; nothing mutates it during a run
//   - All JSON tags use snake_case
package ir
