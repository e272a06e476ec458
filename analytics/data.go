package analytics

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Data is the event vocabulary shipped with the package. Applications may
// use their own event type instead; every wrapper is generic over it.
type Data interface {
	Equal(other Data) bool

	// Kind names the variant, e.g. "event" or "screen".
	Kind() string

	// PartitionKey groups events whose relative order matters to a backend.
	PartitionKey() string

	String() string

	data()
}

var (
	_ Data = Event{}
	_ Data = UserIdentity{}
	_ Data = Screen{}
	_ Data = UserProperty{}
	_ Data = Error{}
)

// Event is a named product event.
type Event struct {
	Name       string
	Properties map[string]string
}

// Named is shorthand for an Event without properties.
func Named(name string) Event {
	return Event{Name: name}
}

func (e Event) Equal(other Data) bool {
	o, ok := other.(Event)
	return ok && e.Name == o.Name && maps.Equal(e.Properties, o.Properties)
}

func (Event) Kind() string { return "event" }
func (e Event) PartitionKey() string { return e.Name }
func (e Event) String() string { return "event(" + e.Name + formatProperties(e.Properties) + ")" }
func (Event) data() {}

// UserIdentity associates subsequent events with a user.
type UserIdentity struct {
	ID         string
	Properties map[string]string
}

func (u UserIdentity) Equal(other Data) bool {
	o, ok := other.(UserIdentity)
	return ok && u.ID == o.ID && maps.Equal(u.Properties, o.Properties)
}

func (UserIdentity) Kind() string { return "user_identity" }
func (u UserIdentity) PartitionKey() string { return "user:" + u.ID }
func (u UserIdentity) String() string {
	return "userIdentity(" + u.ID + formatProperties(u.Properties) + ")"
}
func (UserIdentity) data() {}

// Screen records a screen view.
type Screen struct {
	Name string
}

func (s Screen) Equal(other Data) bool {
	o, ok := other.(Screen)
	return ok && s == o
}

func (Screen) Kind() string { return "screen" }
func (s Screen) PartitionKey() string { return "screen:" + s.Name }
func (s Screen) String() string { return "screen(" + s.Name + ")" }
func (Screen) data() {}

// UserProperty sets a single attribute on the current user.
type UserProperty struct {
	Name  string
	Value string
}

func (p UserProperty) Equal(other Data) bool {
	o, ok := other.(UserProperty)
	return ok && p == o
}

func (UserProperty) Kind() string { return "user_property" }
func (p UserProperty) PartitionKey() string { return "property:" + p.Name }
func (p UserProperty) String() string {
	return fmt.Sprintf("userProperty(%s=%s)", p.Name, p.Value)
}
func (UserProperty) data() {}

// Error reports a non-fatal failure. Two errors are equal when their
// descriptions are.
type Error struct {
	Description string
}

// ErrorOf converts err into an Error event.
func ErrorOf(err error) Error {
	if err == nil {
		return Error{}
	}
	return Error{Description: err.Error()}
}

func (e Error) Equal(other Data) bool {
	o, ok := other.(Error)
	return ok && e == o
}

func (Error) Kind() string { return "error" }
func (Error) PartitionKey() string { return "error" }
func (e Error) String() string { return "error(" + e.Description + ")" }
func (Error) data() {}

func formatProperties(props map[string]string) string {
	if len(props) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(props))
	var sb strings.Builder
	sb.WriteString(", {")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(props[k])
	}
	sb.WriteString("}")
	return sb.String()
}
