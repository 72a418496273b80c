// Package session stores the per-browser identity snapshot obtained from the
// scheduling backend at login. The store is a dumb key-value holder: it never
// inspects the token or checks it for expiry.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
)

// ErrNoSession indicates that no session is stored under the given id.
var ErrNoSession = errors.New("no session")

// Store persists sessions keyed by an opaque session id. Set overwrites all
// fields; Clear removes all fields in one step, so a partial clear is never
// observable.
type Store interface {
	Set(ctx context.Context, sid string, s models.Session) error
	Get(ctx context.Context, sid string) (models.Session, error)
	Clear(ctx context.Context, sid string) error
}

// DefaultTTL is the idle lifetime of a stored session. It bounds how long the
// front-end keeps a session around, independent of whatever lifetime the
// backend gave the bearer token.
const DefaultTTL = 24 * time.Hour
