package backendfake

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"
)

func userView(u *user) map[string]any {
	return map[string]any{
		"user_id":  u.ID,
		"email":    u.Email,
		"username": u.Username,
		"address":  u.Address,
		"pincode":  u.Pincode,
		"role":     u.Role,
	}
}

// listUsers returns every user to admins and the caller's own profile otherwise.
func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	me, ok := b.currentUserLocked(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if me.Role != "admin" {
		writeJSON(w, http.StatusOK, userView(me))
		return
	}

	out := make([]map[string]any, 0, len(b.users))
	for _, u := range b.users {
		if u.Role == "admin" {
			continue
		}
		out = append(out, userView(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i]["user_id"].(int) < out[j]["user_id"].(int) })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	id := atoi(mux.Vars(r)["id"])

	b.mu.RLock()
	defer b.mu.RUnlock()

	me, ok := b.currentUserLocked(r)
	if !ok || (me.Role != "admin" && me.ID != id) {
		writeMessage(w, http.StatusForbidden, "Access denied!")
		return
	}
	for _, u := range b.users {
		if u.ID == id {
			writeJSON(w, http.StatusOK, userView(u))
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "User not found")
}
