// Package events defines the values pkg/batch publishes to its
// "/parse" broker topic, in the style of the teacher's own
// process-lifecycle events (published to its "/process" stream).
package events

// EventScriptParsed is published when one script in a batch parses
// successfully.
type EventScriptParsed struct {
	Path  string
	Name  string // the script's declared ScriptName identifier
	Nodes int    // len(Program.Body), a cheap size signal for progress output
}

// EventScriptFailed is published when one script in a batch fails to
// parse.
type EventScriptFailed struct {
	Path  string
	Error error
}

// EventBatchComplete is published once every script in a batch has been
// attempted, successfully or not.
type EventBatchComplete struct {
	Total    int
	Parsed   int
	Failed   int
}
