package realtime

import (
	cmap "github.com/orcaman/concurrent-map"
)

// Registry is the in-memory presence map from user ID to the user's live
// client. At most one client per user: registering overwrites the prior
// entry (last-connected-wins), so a user with two simultaneous sessions
// only receives pushes on the most recent one. State is process-local and
// lost on restart.
type Registry struct {
	entries cmap.ConcurrentMap
}

func NewRegistry() *Registry {
	return &Registry{entries: cmap.New()}
}

// Register records or overwrites the user's live client and returns the
// client it replaced, if any.
func (r *Registry) Register(userID string, client *Client) *Client {
	var prev *Client
	r.entries.Upsert(userID, client, func(exists bool, valueInMap interface{}, newValue interface{}) interface{} {
		if exists {
			prev = valueInMap.(*Client)
		}
		return newValue
	})
	return prev
}

// Remove deletes the user's entry only if it still belongs to the given
// connection. A disconnect racing with a reconnect must not erase the
// fresher connection's entry.
func (r *Registry) Remove(userID, connID string) bool {
	return r.entries.RemoveCb(userID, func(key string, v interface{}, exists bool) bool {
		if !exists {
			return false
		}
		return v.(*Client).ConnID == connID
	})
}

// Lookup returns the user's live client, if any. Pure read.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	v, ok := r.entries.Get(userID)
	if !ok {
		return nil, false
	}
	return v.(*Client), true
}

// Online returns the IDs of all currently registered users.
func (r *Registry) Online() []string {
	return r.entries.Keys()
}

// Count returns the number of registered users.
func (r *Registry) Count() int {
	return r.entries.Count()
}
