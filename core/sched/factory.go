package sched

import (
	"fmt"
	"strings"
)

// New resolves a policy identifier from configuration. Short aliases follow
// the conventional names used in charging infrastructure planning.
func New(name string) (Policy, error) {
	switch normalize(name) {
	case "uncontrolled", "uc", "":
		return Uncontrolled{}, nil
	case "fcfs":
		return FCFS{}, nil
	case "equalshare", "discriminationfree", "df":
		return EqualShare{}, nil
	case "optimized", "opt":
		return Optimized{}, nil
	default:
		return nil, fmt.Errorf("unknown allocation policy %q, valid: %s", name, strings.Join(Names(), ", "))
	}
}

// Names lists the canonical policy identifiers.
func Names() []string {
	return []string{"uncontrolled", "fcfs", "equal_share", "optimized"}
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "")
	return strings.ReplaceAll(name, "_", "")
}
