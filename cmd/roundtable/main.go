// Roundtable is a multi-persona turn policy engine for chat assistants.
//
// It decides how many turns each persona named in a prompt gets, gates
// provider tool calls against the providers the prompt mentions, and
// normalizes the assistant's reply into numbered persona turns.
//
// Usage:
//
//	# Start the HTTP adapter with default configuration
//	roundtable run
//
//	# Start with a configuration file
//	roundtable run --config /etc/roundtable/config.yaml
//
//	# Show the turn allocation for a prompt
//	roundtable allocate --text "@CTO @DEV review the API latency"
//
//	# Normalize a reply for a persona set
//	roundtable normalize --personas CTO,DEV < reply.txt
//
//	# Query the audit trail
//	roundtable audit query --session conv-42 --format csv
package main

import "os"

func main() {
	os.Exit(Execute())
}
