// Package gate decides whether an external tool call may run.
//
// Tools belong to providers (sentry, github, shortcut, nuxt) by name prefix.
// A conversation turn only unlocks the providers its triggering message
// names explicitly; Detect finds them. Gate.Admit then applies, in order:
//
//  1. no provider named: every provider tool is denied (not_permitted)
//  2. the tool's provider was not named (not_mentioned)
//  3. several providers named and some still unchecked: a provider that was
//     already called must wait until the others are covered (coverage_required)
//  4. the per-turn call cap is reached (call_cap_exceeded)
//
// An admitted call updates the Ledger in the same step, so the next decision
// always sees it. Callers must serialize Admit per conversation.
//
// Denials are *DenialError values and match their reason's sentinel with
// errors.Is.
package gate
