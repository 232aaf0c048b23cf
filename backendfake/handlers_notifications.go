package backendfake

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"
)

func notificationView(n *notification) map[string]any {
	return map[string]any{
		"notification_id": n.ID,
		"user_id":         n.UserID,
		"title":           n.Title,
		"message":         n.Message,
		"read":            n.Read,
		"timestamp":       isoformat(n.Timestamp),
	}
}

func (b *Backend) listNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"

	b.mu.RLock()
	defer b.mu.RUnlock()

	me, ok := b.currentUserLocked(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	list := make([]*notification, 0)
	for _, n := range b.notifications {
		if n.UserID != me.ID || (unreadOnly && n.Read) {
			continue
		}
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })

	out := make([]map[string]any, 0, len(list))
	for _, n := range list {
		out = append(out, notificationView(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) markNotifications(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	me, ok := b.currentUserLocked(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	if markAll, _ := body["mark_all"].(bool); markAll {
		for _, n := range b.notifications {
			if n.UserID == me.ID {
				n.Read = true
			}
		}
		writeMessage(w, http.StatusOK, "All notifications marked as read")
		return
	}

	id := toInt(body["notification_id"])
	if id == 0 {
		writeMessage(w, http.StatusBadRequest, "notification_id or mark_all is required")
		return
	}
	n, ok := b.notifications[id]
	if !ok || n.UserID != me.ID {
		writeMessage(w, http.StatusBadRequest, "Notification not found")
		return
	}
	n.Read = true
	writeMessage(w, http.StatusOK, "Notification marked as read")
}

func (b *Backend) deleteNotification(w http.ResponseWriter, r *http.Request) {
	id := atoi(mux.Vars(r)["id"])

	b.mu.Lock()
	defer b.mu.Unlock()

	me, ok := b.currentUserLocked(r)
	n, found := b.notifications[id]
	if !ok || !found || n.UserID != me.ID {
		writeMessage(w, http.StatusNotFound, "Notification not found")
		return
	}
	delete(b.notifications, id)
	writeMessage(w, http.StatusOK, "Notification deleted")
}
