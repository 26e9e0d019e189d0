// Package match pairs Person A and Person B submissions into one record of
// the response table.
package match

import "strings"

// QueryParam carries the session identifier in join links.
const QueryParam = "match_id"

type RoleKind string

const (
	// RoleNew is Person A: no identifier, starts a session.
	RoleNew RoleKind = "new"
	// RoleJoining is Person B: completes the session named by MatchID.
	RoleJoining RoleKind = "joining"
)

// Role is the outcome of classifying a visitor.
type Role struct {
	Kind    RoleKind
	MatchID string
}

func NewSession() Role { return Role{Kind: RoleNew} }

func JoiningSession(id string) Role { return Role{Kind: RoleJoining, MatchID: id} }

// Joining reports whether r is a Person B role.
func (r Role) Joining() bool { return r.Kind == RoleJoining }

// Classify decides the role from the values of the match_id parameter. Only
// the first value counts; a blank first value is treated as absent.
func Classify(values []string) Role {
	if len(values) == 0 {
		return NewSession()
	}
	id := strings.TrimSpace(values[0])
	if id == "" {
		return NewSession()
	}
	return JoiningSession(id)
}
