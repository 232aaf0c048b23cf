// Package users reads account details: every user for admins, the caller's
// own profile otherwise.
package users

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/jrsteele09/wepark-client/apiclient"
	"github.com/jrsteele09/wepark-client/internal/errors"
	"github.com/jrsteele09/wepark-client/internal/utils"
)

const userEndpoint = "user"

type Service struct {
	utils.OpState

	api apiclient.Caller

	mu      sync.RWMutex
	users   []User
	profile *User
}

func New(api apiclient.Caller) *Service {
	return &Service{api: api}
}

func (s *Service) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]User(nil), s.users...)
}

func (s *Service) Profile() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// FetchUsers lists registered users. Only admins get a list back.
func (s *Service) FetchUsers(ctx context.Context) ([]User, error) {
	const fallback = "Failed to fetch users"

	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, userEndpoint, http.MethodGet, nil)
	if err := resp.Err(fallback); err != nil {
		return nil, s.Fail(err)
	}

	var list []User
	if err := resp.Decode(&list); err != nil {
		// A non-admin gets their own record instead of a list.
		var own User
		if resp.Decode(&own) == nil && (own.ID != 0 || own.Username != "") {
			return nil, s.Fail(errors.Wrapf(errors.ErrForbidden, "%s", fallback))
		}
		return nil, s.Fail(errors.Wrapf(err, "%s", fallback))
	}

	s.mu.Lock()
	s.users = list
	s.mu.Unlock()
	return list, nil
}

// FetchProfile loads the signed-in user's own account.
func (s *Service) FetchProfile(ctx context.Context) (*User, error) {
	const fallback = "Failed to fetch profile"

	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, userEndpoint, http.MethodGet, nil)
	if err := resp.Err(fallback); err != nil {
		return nil, s.Fail(err)
	}

	var u User
	if err := resp.Decode(&u); err != nil {
		return nil, s.Fail(errors.Wrapf(err, fallback))
	}

	s.mu.Lock()
	s.profile = &u
	s.mu.Unlock()
	return &u, nil
}

// FetchUser loads one account by id.
func (s *Service) FetchUser(ctx context.Context, id int) (*User, error) {
	const fallback = "Failed to fetch user"

	done := s.Begin()
	defer done()

	resp := s.api.Call(ctx, userEndpoint+"/"+strconv.Itoa(id), http.MethodGet, nil)
	if err := resp.Err(fallback); err != nil {
		return nil, s.Fail(err)
	}

	var u User
	if err := resp.Decode(&u); err != nil {
		return nil, s.Fail(errors.Wrapf(err, fallback))
	}
	return &u, nil
}
