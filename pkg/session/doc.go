// Package session holds the live policy of each conversation.
//
// A Policy is created when a user message names personas and replaced
// wholesale by the next such message; a message without personas clears it.
// There is at most one live policy per conversation id.
//
// MemoryStore keeps policies in memory only. Reads return deep copies, and
// read-modify-write goes through Update, which holds a mutex private to that
// conversation so that work on one id never waits on another id's update.
// A restart loses every policy, which is the same as clearing them all.
package session
