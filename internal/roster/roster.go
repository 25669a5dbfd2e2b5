package roster

import (
	"maps"
	"slices"
)

type connSet map[string]struct{}

// Roster maps identities to their live connections and connections back to identities.
// Invariant: an identity is present iff its connection set is non-empty.
type Roster struct {
	byIdentity map[string]connSet
	byConn     map[string]string
}

func New() *Roster {
	return &Roster{
		byIdentity: make(map[string]connSet),
		byConn:     make(map[string]string),
	}
}

// Join registers identity for the connection. It reports whether the identity set changed.
// Joining again with the same identity is a no-op. A connection that already joined under a
// different identity is moved to the new one.
func (r *Roster) Join(connID, identity string) bool {
	if connID == "" || identity == "" {
		return false
	}

	current, joined := r.byConn[connID]
	if joined && current == identity {
		return false
	}

	changed := false
	if joined {
		changed = r.detach(connID, current)
	}

	conns, exists := r.byIdentity[identity]
	if !exists {
		conns = make(connSet)
		r.byIdentity[identity] = conns
		changed = true
	}
	conns[connID] = struct{}{}
	r.byConn[connID] = identity

	return changed
}

// Leave drops the connection from whichever identity it belonged to. It reports whether
// the identity set changed, which happens when the identity's last connection leaves.
func (r *Roster) Leave(connID string) bool {
	identity, joined := r.byConn[connID]
	if !joined {
		return false
	}
	return r.detach(connID, identity)
}

// Remove forcibly drops identity and every connection mapped to it. It returns the removed
// connection ids in sorted order, or nil if the identity is unknown.
func (r *Roster) Remove(identity string) []string {
	conns, exists := r.byIdentity[identity]
	if !exists {
		return nil
	}

	removed := slices.Sorted(maps.Keys(conns))
	for _, connID := range removed {
		delete(r.byConn, connID)
	}
	delete(r.byIdentity, identity)

	return removed
}

// Size returns the number of distinct connected identities.
func (r *Roster) Size() int {
	return len(r.byIdentity)
}

// Identities returns a sorted snapshot of the connected identities. It is never nil.
func (r *Roster) Identities() []string {
	identities := make([]string, 0, len(r.byIdentity))
	for identity := range r.byIdentity {
		identities = append(identities, identity)
	}
	slices.Sort(identities)
	return identities
}

// IdentityOf returns the identity the connection joined under.
func (r *Roster) IdentityOf(connID string) (string, bool) {
	identity, ok := r.byConn[connID]
	return identity, ok
}

// Connections returns a sorted snapshot of the connections held by identity.
func (r *Roster) Connections(identity string) []string {
	return slices.Sorted(maps.Keys(r.byIdentity[identity]))
}

func (r *Roster) detach(connID, identity string) bool {
	delete(r.byConn, connID)

	conns, exists := r.byIdentity[identity]
	if !exists {
		return false
	}
	delete(conns, connID)
	if len(conns) > 0 {
		return false
	}
	delete(r.byIdentity, identity)
	return true
}
