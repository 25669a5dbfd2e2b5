// Package roster tracks which participant identities are connected.
//
// A participant identity may hold several connections (duplicate logins, multiple tabs).
// The roster counts identities, not connections. Roster is not safe for concurrent use:
// it is owned by the poll engine goroutine, which serializes every mutation.
package roster
