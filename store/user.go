package store

import (
	"context"
)

// User is a registered user in the shared store.
type User struct {
	SID         string
	DisplayName string
	IsActive    bool
	CreatedTs   int64
}

// FindUser is the filter for user queries.
type FindUser struct {
	SID      *string
	IsActive *bool
}

func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.SID != nil {
		if cached, ok := s.userCache.Get(*find.SID); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	user, err := s.shared.GetUser(ctx, find)
	if err != nil {
		return nil, err
	}
	if user != nil {
		s.userCache.Set(user.SID, user)
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.shared.ListUsers(ctx, find)
}

func (s *Store) CountUsers(ctx context.Context, find *FindUser) (int64, error) {
	return s.shared.CountUsers(ctx, find)
}
