// Package persona resolves the set of functional personas a chat turn should
// be voiced as.
//
// # Overview
//
// A persona is one of a fixed set of role labels (CTO, DEV, PO, PM, CEO,
// MARKETING, RESEARCH). Personas are requested either through a hidden
// marker directive appended by the host during prompt augmentation, or
// through natural "@Name" mentions anywhere in a message:
//
//	@CTO and @dev, can you review the API latency numbers?
//	@[PM] @<Research> what does the roadmap look like?
//	<<AGENT_CONVERSATIONS:CTO,DEV>>
//
// The marker form always wins when it yields at least one valid persona.
// Unknown tokens are dropped silently; resolution never fails, it only
// returns an empty Set.
//
// # Ordering
//
// A Set preserves first-mention order and never contains duplicates. The
// first persona is the lead: it opens and closes a multi-persona transcript
// and receives a minimum of two turns.
package persona
