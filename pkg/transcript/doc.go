// Package transcript repairs generated multi-persona replies.
//
// A transcript is a sequence of lines of the form
//
//	[n] PERSONA: message
//
// separated by blank lines. Normalize filters a generated reply down to the
// lines spoken by active personas, enforces each persona's quota, makes the
// lead persona open and close the thread, and renumbers the result. When no
// line survives, the reply is returned untouched.
//
// The Append helpers add follow-up notices in the same numbering scheme, or
// as a plain trailing sentence for single-persona replies.
package transcript
