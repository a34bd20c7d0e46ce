package fitness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/2beens/elitefitness/internal/kvstore"
	"github.com/2beens/elitefitness/internal/telemetry/metrics"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const RosterKey = "fitnessUsers"

// ErrNoChange can be returned from a mutation func to skip the roster write.
var ErrNoChange = errors.New("no change")

// Roster persists all users as a single JSON array under RosterKey.
// Each mutation reads the full roster, replaces one user and writes the
// full roster back, all under the roster mutex. Writers in other processes
// are not coordinated, the last write wins.
type Roster struct {
	store   kvstore.Store
	ids     *IDGenerator
	stores  Stores
	metrics *metrics.Manager
	mutex   sync.Mutex
}

func NewRoster(store kvstore.Store, ids *IDGenerator, metricsManager *metrics.Manager) *Roster {
	return &Roster{
		store:   store,
		ids:     ids,
		stores:  NewStores(ids),
		metrics: metricsManager,
	}
}

func (r *Roster) Stores() Stores {
	return r.stores
}

// Load reads the whole roster and makes sure newly generated IDs never collide
// with persisted ones. A corrupt roster yields ErrCorruptRoster.
func (r *Roster) Load(ctx context.Context) ([]User, error) {
	users, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		r.ids.Observe(u.MaxID())
	}
	if r.metrics != nil {
		r.metrics.GaugeUsers.Set(float64(len(users)))
	}
	return users, nil
}

func (r *Roster) Get(ctx context.Context, id int64) (User, error) {
	users, err := r.read(ctx)
	if err != nil {
		return User{}, err
	}
	idx := slices.IndexFunc(users, func(u User) bool { return u.ID == id })
	if idx < 0 {
		return User{}, ErrUserNotFound
	}
	return users[idx], nil
}

// FindByEmail matches emails case insensitively.
func (r *Roster) FindByEmail(ctx context.Context, email string) (User, error) {
	users, err := r.read(ctx)
	if err != nil {
		return User{}, err
	}
	idx := indexByEmail(users, email)
	if idx < 0 {
		return User{}, ErrUserNotFound
	}
	return users[idx], nil
}

// Create builds a new user from the current roster and appends it.
// build may reject the user, e.g. when the email is taken.
func (r *Roster) Create(ctx context.Context, build func(users []User) (User, error)) (_ User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "roster.create")
	defer tracing.EndSpanWithErrCheck(span, &err)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	users, err := r.read(ctx)
	if err != nil {
		return User{}, err
	}

	user, err := build(users)
	if err != nil {
		return User{}, err
	}
	user.ID = r.ids.Next()
	span.SetAttributes(attribute.Int64("user.id", user.ID))

	updated := make([]User, 0, len(users)+1)
	updated = append(updated, users...)
	updated = append(updated, user)
	if err := r.write(ctx, updated); err != nil {
		return User{}, err
	}

	return user, nil
}

// Update applies mutate to a copy of the user and persists the result.
func (r *Roster) Update(ctx context.Context, id int64, mutate func(u User) (User, error)) (_ User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "roster.update")
	span.SetAttributes(attribute.Int64("user.id", id))
	defer tracing.EndSpanWithErrCheck(span, &err)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	users, err := r.read(ctx)
	if err != nil {
		return User{}, err
	}
	idx := slices.IndexFunc(users, func(u User) bool { return u.ID == id })
	if idx < 0 {
		return User{}, ErrUserNotFound
	}

	current := users[idx]
	next, err := mutate(current)
	if errors.Is(err, ErrNoChange) {
		return current, nil
	}
	if err != nil {
		return User{}, err
	}
	next.ID = current.ID

	updated := slices.Clone(users)
	updated[idx] = next
	if err := r.write(ctx, updated); err != nil {
		return User{}, err
	}

	return next, nil
}

func (r *Roster) read(ctx context.Context) ([]User, error) {
	raw, err := r.store.Get(ctx, RosterKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return []User{}, nil
		}
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []User{}, nil
	}

	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptRoster, err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (r *Roster) write(ctx context.Context, users []User) error {
	defer func(begin time.Time) {
		if r.metrics != nil {
			r.metrics.HistRosterWriteDuration.Observe(time.Since(begin).Seconds())
		}
	}(time.Now())

	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}

	if err := r.store.Set(ctx, RosterKey, raw); err != nil {
		if r.metrics != nil {
			r.metrics.CounterRosterWriteErrors.Inc()
		}
		return fmt.Errorf("write roster: %w", err)
	}

	if r.metrics != nil {
		r.metrics.CounterRosterWrites.Inc()
		r.metrics.GaugeUsers.Set(float64(len(users)))
	}
	log.Tracef("roster written: %d users, %d bytes", len(users), len(raw))

	return nil
}

func indexByEmail(users []User, email string) int {
	email = NormalizeEmail(email)
	return slices.IndexFunc(users, func(u User) bool {
		return NormalizeEmail(u.Email) == email
	})
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailTaken reports whether any user in users already uses email.
func EmailTaken(users []User, email string) bool {
	return indexByEmail(users, email) >= 0
}
