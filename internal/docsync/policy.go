package docsync

import "fmt"

// Policy selects which frames a local edit stream produces
type Policy string

const (
	// PolicyDual sends a raw document frame on every keystroke and an
	// attributed edit frame once typing pauses.
	PolicyDual Policy = "dual"
	// PolicyDocument sends only raw document frames. Pauses still record a
	// local snapshot.
	PolicyDocument Policy = "document"
	// PolicyEdit sends only the debounced edit frames.
	PolicyEdit Policy = "edit"
)

// ParsePolicy validates a policy name; empty means PolicyDual
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyDual:
		return PolicyDual, nil
	case PolicyDocument, PolicyEdit:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown sync policy %q (want dual, document or edit)", s)
	}
}

func (p Policy) sendsDocument() bool { return p == PolicyDual || p == PolicyDocument }
func (p Policy) sendsEdit() bool     { return p == PolicyDual || p == PolicyEdit }
