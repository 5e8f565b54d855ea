// Package harness provides conformance testing for fizzbuzz rule sets.
//
// The harness loads a rule set (a preset or a rule file), plays the game,
// and checks the output against the expectations written in a scenario.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	preset: { fizz: 2, buzz: 7 }      # or: rules: path/to/rules.cue
//	iterations: 20
//	format: { separator: ",", case: lower }
//	tie_break: last
//	expect:
//	  output: "1,Fizz,3,..."
//	  tokens: { 14: FizzBuzz }
//	assertions:
//	  - type: winner_at
//	    iteration: 14
//	    rule: fizzbuzz
//
// A scenario that expects a failure sets expect.error to a substring of the
// error message, usually an error code such as NON_ZERO_VALUE.
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - token_at: the token emitted at an iteration
//   - winner_at: the rule that won an iteration
//   - token_count: how many times a token was emitted
//   - silent: no rule matched an iteration
//
// # Deterministic Testing
//
// Every run is tagged with a fixed run id (scenario.run_id, or
// "test-run-default"), so golden snapshots are byte-identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/traditional_2_7.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
