/*
Package server implements msgpack IPC for alias completion.

The server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. Logs go to stderr so they never mix with replies.

# IPC

Every request carries an ID that is echoed in its reply, and an action.
Completion is the default action, so the common request stays small:

	{"id": "q1", "p": "alp", "l": 5}

The reply lists the leaves below the longest matched prefix, in trie order,
with recently selected aliases first when enabled:

	{"id": "q1", "s": [{"w": "alpha", "m": 3, "v": "α", "r": 1}, {"w": "alpaca", "m": 3, "v": "l", "r": 2}], "c": 2, "t": 12}

"m" is how many bytes of "p" matched and "t" the lookup time in microseconds.
An empty or non-ASCII prefix yields an empty list.

Other actions:

	{"id": "s1", "action": "select", "a": "alpha"}  -> {"id": "s1", "status": "ok", "a": "alpha", "v": "α"}
	{"id": "l1", "action": "lookup", "a": "alpha"}
	{"id": "r1", "action": "reload"}
	{"id": "t1", "action": "render"}
	{"id": "x1", "action": "stats"}
	{"id": "c1", "action": "settings"}
	{"id": "h1", "action": "health"}

Failures are reported as {"id": ..., "e": message, "c": code} with codes
400 (bad request), 404 (unknown alias), 409 (duplicate alias) and 500.

On start the server writes {"status": "ready"}; it stops cleanly at EOF.
*/
package server

const (
	ActionComplete = "complete"
	ActionSelect   = "select"
	ActionLookup   = "lookup"
	ActionReload   = "reload"
	ActionRender   = "render"
	ActionStats    = "stats"
	ActionSettings = "settings"
	ActionHealth   = "health"
)

// Request - any client message
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Alias  string `msgpack:"a,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Alias   string `msgpack:"w"`
	Matched int    `msgpack:"m"`
	Char    string `msgpack:"v"`
	Rank    uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// AliasResponse - select and lookup response
type AliasResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Alias  string `msgpack:"a"`
	Char   string `msgpack:"v"`
}

// ReloadResponse - dataset reload response
type ReloadResponse struct {
	ID         string `msgpack:"id"`
	Status     string `msgpack:"status"`
	Aliases    int    `msgpack:"aliases"`
	Datasets   int    `msgpack:"datasets"`
	Duplicates int    `msgpack:"duplicates"`
	TimeTaken  int64  `msgpack:"t"`
}

// RenderResponse - trie dump
type RenderResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Tree   string `msgpack:"tree"`
}

// StatsResponse - index counters
type StatsResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats"`
}

// SettingsResponse - settings the desktop shell needs
type SettingsResponse struct {
	ID           string `msgpack:"id"`
	Status       string `msgpack:"status"`
	Hotkey       string `msgpack:"hotkey"`
	Sink         string `msgpack:"sink"`
	DatasetDir   string `msgpack:"dataset_dir"`
	MaxLimit     int    `msgpack:"max_limit"`
	DefaultLimit int    `msgpack:"default_limit"`
}

// StatusResponse - ready and health replies
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// CompletionError holds basic error information for any request
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
