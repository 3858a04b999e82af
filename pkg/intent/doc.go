// Package intent classifies free text into a conversation intent.
//
// An intent is one of backend, design, marketing, roadmap, research or
// mixed. Classification is driven by a keyword Table: every non-mixed intent
// owns two or more Groups of case-insensitive patterns, and an intent's score
// is the number of its groups that match the text at least once. The intent
// with the strictly highest score wins, ties resolve by the fixed priority
// order of Priority, and a text that matches nothing is mixed.
//
// Tables are data. DefaultTable reproduces the built-in keyword groups,
// LoadTable reads a YAML table from disk, and KeywordClassifier.Swap replaces
// the active table atomically so a Watcher can hot-reload it while
// classifications are in flight.
//
// # Table File Format
//
//	intents:
//	  backend:
//	    - name: systems
//	      patterns: [api, latency, database]
//	    - name: reliability
//	      patterns: [timeout, retry, 'n\+1']
//
// Each pattern is a regular expression fragment; the fragments of one group
// are joined into a single alternation and matched case-insensitively.
package intent
