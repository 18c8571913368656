// Package identity carries the acting user through a request-scoped context.
package identity

import (
	"context"

	"github.com/anjiri1684/coded/models"
)

type ctxKey struct{}

func WithUser(ctx context.Context, user *models.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, user)
}

// User returns the resolved user, or false for anonymous requests.
func User(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}

func UserID(ctx context.Context) (uint, bool) {
	u, ok := User(ctx)
	if !ok {
		return 0, false
	}
	return u.ID, true
}
