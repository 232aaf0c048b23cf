// Package notifications lists and updates the signed-in user's
// notifications.
package notifications

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/jrsteele09/wepark-client/apiclient"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/internal/utils"
	"github.com/rs/zerolog/log"
)

const notificationEndpoint = "notification"

type Service struct {
	utils.OpState

	api apiclient.Caller

	mu     sync.RWMutex
	all    []Notification
	unread []Notification
}

func New(api apiclient.Caller) *Service {
	return &Service{api: api}
}

func (s *Service) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.all...)
}

func (s *Service) UnreadNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.unread...)
}

func (s *Service) NotificationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.all)
}

// UnreadCount is the size of the cached unread list.
func (s *Service) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.unread)
}

func (s *Service) HasUnread() bool {
	return s.UnreadCount() > 0
}

func (s *Service) FetchNotifications(ctx context.Context) ([]Notification, error) {
	done := s.Begin()
	defer done()
	return s.fetch(ctx, false)
}

func (s *Service) FetchUnreadNotifications(ctx context.Context) ([]Notification, error) {
	done := s.Begin()
	defer done()
	return s.fetch(ctx, true)
}

// refresh reloads a list after a write the server has already accepted. A
// failure is left in Err() and does not undo the write.
func (s *Service) refresh(ctx context.Context, unreadOnly bool, op string) {
	if _, err := s.fetch(ctx, unreadOnly); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("notifications refresh failed")
	}
}

func (s *Service) fetch(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	endpoint, fallback := notificationEndpoint, "Failed to fetch notifications"
	if unreadOnly {
		endpoint, fallback = notificationEndpoint+"?unread=true", "Failed to fetch unread notifications"
	}

	resp := s.api.Call(ctx, endpoint, http.MethodGet, nil)
	if err := resp.Err(fallback); err != nil {
		return nil, s.Fail(err)
	}

	var list []Notification
	if err := resp.Decode(&list); err != nil {
		return nil, s.Fail(errors.Wrapf(err, "%s", fallback))
	}

	s.mu.Lock()
	if unreadOnly {
		s.unread = list
	} else {
		s.all = list
	}
	s.mu.Unlock()
	return list, nil
}

// MarkAsRead marks one notification read and refreshes the unread list.
func (s *Service) MarkAsRead(ctx context.Context, id int) (string, error) {
	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, notificationEndpoint, http.MethodPost, map[string]int{"notification_id": id})
	if err := resp.Err("Failed to mark as read"); err != nil {
		return "", s.Fail(err)
	}
	s.refresh(ctx, true, "mark as read")
	return resp.Message(""), nil
}

// MarkAllAsRead clears the unread list and refreshes the full list.
func (s *Service) MarkAllAsRead(ctx context.Context) (string, error) {
	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, notificationEndpoint, http.MethodPost, map[string]bool{"mark_all": true})
	if err := resp.Err("Failed to mark all as read"); err != nil {
		return "", s.Fail(err)
	}

	s.mu.Lock()
	s.unread = nil
	s.mu.Unlock()

	s.refresh(ctx, false, "mark all as read")
	return resp.Message(""), nil
}

// DeleteNotification removes a notification and refreshes the full list.
func (s *Service) DeleteNotification(ctx context.Context, id int) (string, error) {
	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, notificationEndpoint+"/"+strconv.Itoa(id), http.MethodDelete, nil)
	if err := resp.Err("Failed to delete notification"); err != nil {
		return "", s.Fail(err)
	}
	s.refresh(ctx, false, "delete notification")
	return resp.Message(""), nil
}
