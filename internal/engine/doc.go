// Package engine implements the fizzbuzz rule-evaluation and tokenization engine.
//
// The engine holds an ordered list of rules. For every iteration 1..=t it
// evaluates each rule's condition, selects the matching rule with the
// highest priority, and emits that rule's token. Iterations that no rule
// matches emit nothing.
//
// RULES:
//
// Rules are a closed set of variants dispatched through a single Rule type:
//   - fixed:   constant token, matches when every divisor divides i
//   - streak:  token plus a suffix per uninterrupted prior clean division
//   - numeric: fallback, always matches with priority 0, emits i
//   - custom:  caller-supplied condition and token functions
//
// Rules validate their inputs at construction and are immutable afterwards.
//
// EVALUATION:
//
// Evaluation is single-threaded and keeps no state between iterations.
// Streak counts are recomputed from (i, divisor, rivals) on every call, so
// the same rules and iteration count always produce byte-identical output.
//
// Equal priorities are resolved by an explicit TieBreak policy. The default,
// TieBreakLast, selects the last matching rule in configuration order.
package engine
