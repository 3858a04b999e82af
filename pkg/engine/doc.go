// Package engine runs the multi-persona turn lifecycle for a host.
//
// A host calls the engine at five points of every conversation turn:
//
//  1. AugmentPrompt, on the raw prompt before it is sent, to embed a marker
//     naming the personas that were @-mentioned.
//  2. Ingest, on the user message, to resolve personas, classify intent,
//     allocate turns and store a fresh policy. The returned text carries the
//     format contract.
//  3. SystemInstruction, before the system prompt is built, at most once per
//     stored policy.
//  4. AuthorizeTool, before every tool call, to apply the provider gate.
//  5. Finalize, on the generated reply, to normalize the transcript and
//     append coverage and live-data notices.
//
// A message that addresses no persona clears the conversation's policy, and
// every later phase becomes a no-op until personas are addressed again.
//
// # Usage
//
//	eng := engine.New(engine.Options{Store: session.NewMemoryStore()})
//
//	res, err := eng.Ingest(ctx, "conv-1", "@CTO @DEV why is the API slow?")
//	if err != nil {
//	    return err
//	}
//	// send res.Text to the generator
//
//	if _, err := eng.AuthorizeTool(ctx, "conv-1", "sentry_search_issues"); err != nil {
//	    // surface the denial reason to the generator
//	}
//
//	reply, _ := eng.Finalize(ctx, "conv-1", generated)
//
// # Concurrency
//
// An Engine is safe for concurrent use. Different conversations never block
// each other; tool authorization for one conversation is serialized by the
// session store so call counters are never lost.
package engine
