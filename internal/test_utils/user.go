package test_utils

import (
	"context"

	"github.com/crewdeck/crewdeck/pkg/user"
)

// AdminContext returns a context carrying a privileged test user.
func AdminContext() context.Context {
	return user.WithUser(context.Background(), user.User{
		Id:    1,
		Uid:   "test-admin",
		Email: "admin@example.com",
		Name:  "Test Admin",
		Role:  user.RoleAdmin,
	})
}

// MemberContext returns a context carrying a non-privileged test user.
func MemberContext() context.Context {
	return user.WithUser(context.Background(), user.User{
		Id:    2,
		Uid:   "test-member",
		Email: "member@example.com",
		Name:  "Test Member",
		Role:  user.RoleUser,
	})
}
