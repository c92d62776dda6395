package diag

import (
	"encoding/json"
	"testing"
)

func TestEventJSONOmitsLocationWhenAbsent(t *testing.T) {
	b, err := json.Marshal(Event{OK: true, Message: "ok"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if _, present := m["location"]; present {
		t.Error("expected location to be omitted when nil")
	}
}

func TestEventJSONIncludesLocationWhenPresent(t *testing.T) {
	ev := Event{OK: false, Message: "bad", Location: &Location{File: "a.c", Line: 3, Column: 4}}
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Event
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Location == nil || decoded.Location.Line != 3 {
		t.Fatalf("expected location round-trip, got %+v", decoded.Location)
	}
}

func TestNewHubStartsEmpty(t *testing.T) {
	h := NewHub()
	if len(h.clients) != 0 {
		t.Fatal("expected a fresh hub to have no connected clients")
	}
	// Broadcasting with no clients connected must not panic or block.
	h.Broadcast(Event{OK: true, Message: "noop"})
}
