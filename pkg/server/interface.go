/*
Package server implements msgpack IPC for the wordfix autocorrect core.

The server reads a stream of msgpack requests from stdin and writes one
msgpack response per request to stdout. Logs go to stderr. Messages are
processed synchronously with timing info included in responses.

# IPC

Every request carries an ID, echoed back in the response, and an action.
An empty action with a token is treated as "suggest".

Correction requests look like this:

	{"id": "req_001", "action": "suggest", "t": "helo", "ctx": ["say"], "l": 5}

The server responds with suggestions best first:

	{"id": "req_001", "status": "ok", "s": [{"w": "hello", "r": 1, "cf": 0.8, "src": "dictionary"}], "c": 1, "t": 145}

"ignore" asks whether a token should be left alone (numbers, acronyms,
addresses):

	{"id": "req_002", "action": "ignore", "t": "NASA"}

Custom words are managed with "add", "remove", "list" and "clear":

	{"id": "dict_001", "action": "add", "w": "wordfix", "lang": "en"}
	{"id": "dict_002", "action": "list"}

"export" and "import" write and read backup archives on the server's file
system; "mode" is "merge" (default) or "replace":

	{"id": "bk_001", "action": "export", "path": "/tmp/words.zip"}
	{"id": "bk_002", "action": "import", "path": "/tmp/words.zip", "mode": "replace"}

"health" reports word and cache counts.

Failed requests get status "error" with a message and an HTTP-like code:
400 bad request, 404 nothing found, 409 conflict, 422 unreadable archive,
500 storage or internal failure.

The server sends {"status": "ready"} once before reading the first request.
*/
package server

// Actions understood by the server.
const (
	ActionSuggest = "suggest"
	ActionIgnore  = "ignore"
	ActionAdd     = "add"
	ActionRemove  = "remove"
	ActionList    = "list"
	ActionClear   = "clear"
	ActionExport  = "export"
	ActionImport  = "import"
	ActionHealth  = "health"
)

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusReady = "ready"
)

// Request is any client message. Fields not used by the action are ignored.
type Request struct {
	ID      string   `msgpack:"id"`
	Action  string   `msgpack:"action,omitempty"`
	Token   string   `msgpack:"t,omitempty"`
	Context []string `msgpack:"ctx,omitempty"`
	Limit   int      `msgpack:"l,omitempty"`
	Word    string   `msgpack:"w,omitempty"`
	Lang    string   `msgpack:"lang,omitempty"`
	Path    string   `msgpack:"path,omitempty"`
	Mode    string   `msgpack:"mode,omitempty"`
}

// Suggestion is one ranked correction.
type Suggestion struct {
	Word       string  `msgpack:"w"`
	Rank       uint16  `msgpack:"r"`
	Confidence float64 `msgpack:"cf"`
	Source     string  `msgpack:"src"`
	Language   string  `msgpack:"lang,omitempty"`
}

// LanguageCount is the per-language part of an import or export.
type LanguageCount struct {
	Language string `msgpack:"lang"`
	Total    int    `msgpack:"total"`
	Added    int    `msgpack:"added,omitempty"`
	Skipped  int    `msgpack:"skipped,omitempty"`
	Errors   int    `msgpack:"errors,omitempty"`
}

// Response answers a Request. TimeTaken is in microseconds.
type Response struct {
	ID          string              `msgpack:"id"`
	Status      string              `msgpack:"status"`
	Error       string              `msgpack:"error,omitempty"`
	Code        int                 `msgpack:"code,omitempty"`
	Suggestions []Suggestion        `msgpack:"s,omitempty"`
	Count       int                 `msgpack:"c"`
	AutoApply   bool                `msgpack:"auto,omitempty"`
	Ignore      bool                `msgpack:"ignore,omitempty"`
	Removed     bool                `msgpack:"removed,omitempty"`
	Words       []string            `msgpack:"words,omitempty"`
	ByLanguage  map[string][]string `msgpack:"by_lang,omitempty"`
	Languages   []LanguageCount     `msgpack:"langs,omitempty"`
	Added       int                 `msgpack:"added,omitempty"`
	Skipped     int                 `msgpack:"skipped,omitempty"`
	Errors      int                 `msgpack:"errors,omitempty"`
	Stats       map[string]int      `msgpack:"stats,omitempty"`
	TimeTaken   int64               `msgpack:"t"`
}
