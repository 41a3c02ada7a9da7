// Package engine executes a Markov (Normal) algorithm over a working
// string.
//
// A Runner binds one ruleset and one initial context. Each Step scans
// the rules in order and fires the first one whose pattern occurs in
// the context, rewriting the leftmost occurrence. The run halts when a
// terminating rule fires or when no rule matches; Halted is terminal
// and a fresh Runner must be built for a fresh run.
//
// Evaluation is strictly sequential and synchronous - Markov
// algorithms are deterministic by construction, so there is no event
// queue and no concurrency inside a Runner. Every step is stamped with
// a monotonic logical sequence number and appended to the run history;
// the first history entry records the starting context before any
// rewriting ("step 0"), so observers can replay the full lineage.
//
// Run drains steps until the Runner halts. An algorithm whose rules
// rewrite forever makes Run loop forever - that is the historical
// model, not a bug. Callers that need a bound drive Step under their
// own budget.
package engine
