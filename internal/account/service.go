package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/session"
	"github.com/2beens/elitefitness/internal/telemetry/metrics"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"
	"github.com/2beens/elitefitness/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthorized       = errors.New("unauthorized")
)

type RegisterParams struct {
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	ConfirmPassword string         `json:"confirmPassword"`
	Age             int            `json:"age"`
	Weight          float64        `json:"weight"`
	Height          float64        `json:"height"`
	Gender          fitness.Gender `json:"gender"`
	FitnessLevel    string         `json:"fitnessLevel"`
}

func (p RegisterParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fitness.NewValidationError("name", "required")
	}
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return fitness.NewValidationError("email", "required")
	}
	if !strings.Contains(email, "@") {
		return fitness.NewValidationError("email", "not an email address")
	}
	if p.Password != p.ConfirmPassword {
		return fitness.NewValidationError("password", "passwords don't match")
	}
	if len(p.Password) < MinPasswordLength {
		return fitness.NewValidationError("password", fmt.Sprintf("must be at least %d characters long", MinPasswordLength))
	}
	return nil
}

// Service handles registration, login and the profile/goals of the current user.
type Service struct {
	roster   *fitness.Roster
	sessions session.Manager
	metrics  *metrics.Manager
	hashCost int

	Now func() time.Time
}

func NewService(
	roster *fitness.Roster,
	sessions session.Manager,
	metricsManager *metrics.Manager,
	hashCost int,
) *Service {
	return &Service{
		roster:   roster,
		sessions: sessions,
		metrics:  metricsManager,
		hashCost: hashCost,
		Now:      time.Now,
	}
}

// Register creates the user with default goals and logs it in.
func (s *Service) Register(ctx context.Context, params RegisterParams) (_ fitness.User, _ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "account.register")
	defer tracing.EndSpanWithErrCheck(span, &err)

	if err := params.Validate(); err != nil {
		return fitness.User{}, "", err
	}

	// hashing is slow, keep it out of the roster lock
	passwordHash, err := pkg.HashPasswordWithCost(params.Password, s.hashCost)
	if err != nil {
		return fitness.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.Now()
	user, err := s.roster.Create(ctx, func(users []fitness.User) (fitness.User, error) {
		if fitness.EmailTaken(users, params.Email) {
			return fitness.User{}, ErrEmailTaken
		}
		return fitness.User{
			Email:        strings.TrimSpace(params.Email),
			PasswordHash: passwordHash,
			JoinedDate:   now.UTC(),
			Profile: fitness.Profile{
				Name:         strings.TrimSpace(params.Name),
				Age:          params.Age,
				Weight:       params.Weight,
				Height:       params.Height,
				Gender:       params.Gender,
				FitnessLevel: params.FitnessLevel,
			},
			Goals:            fitness.DefaultGoals(),
			Workouts:         []fitness.Workout{},
			BodyMeasurements: []fitness.BodyMeasurement{},
			ProgressPhotos:   []fitness.ProgressPhoto{},
			PersonalRecords:  []fitness.PersonalRecord{},
		}, nil
	})
	if err != nil {
		return fitness.User{}, "", err
	}
	span.SetAttributes(attribute.Int64("user.id", user.ID))
	if s.metrics != nil {
		s.metrics.CounterRegistrations.Inc()
	}

	token, err := s.sessions.Create(ctx, user.ID, now)
	if err != nil {
		return fitness.User{}, "", fmt.Errorf("create session: %w", err)
	}

	log.Infof("new user registered: %d", user.ID)
	return user, token, nil
}

// Login checks the credentials and opens a new session. Unknown emails and wrong
// passwords are not distinguished.
func (s *Service) Login(ctx context.Context, email, password string) (_ fitness.User, _ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "account.login")
	defer tracing.EndSpanWithErrCheck(span, &err)

	user, err := s.roster.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, fitness.ErrUserNotFound) {
			s.countLogin("invalid")
			return fitness.User{}, "", ErrInvalidCredentials
		}
		s.countLogin("error")
		return fitness.User{}, "", err
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		log.Tracef("failed login attempt for user %d", user.ID)
		s.countLogin("invalid")
		return fitness.User{}, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID, s.Now())
	if err != nil {
		s.countLogin("error")
		return fitness.User{}, "", fmt.Errorf("create session: %w", err)
	}

	s.countLogin("ok")
	return user, token, nil
}

func (s *Service) countLogin(result string) {
	if s.metrics != nil {
		s.metrics.CounterLogins.WithLabelValues(result).Inc()
	}
}

func (s *Service) Logout(ctx context.Context, token string) (bool, error) {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves the session of the token.
func (s *Service) Authenticate(ctx context.Context, token string) (session.Session, error) {
	if token == "" {
		return session.Session{}, session.ErrSessionNotFound
	}
	return s.sessions.Lookup(ctx, token)
}

// CurrentUser derives the user of the session from the roster. Missing and expired
// sessions, and sessions pointing to a user that no longer exists, are unauthorized.
func (s *Service) CurrentUser(ctx context.Context, token string) (fitness.User, error) {
	sess, err := s.Authenticate(ctx, token)
	if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
		return fitness.User{}, ErrUnauthorized
	}
	if err != nil {
		return fitness.User{}, fmt.Errorf("lookup session: %w", err)
	}
	user, err := s.roster.Get(ctx, sess.UserID)
	if errors.Is(err, fitness.ErrUserNotFound) {
		return fitness.User{}, ErrUnauthorized
	}
	return user, err
}

func (s *Service) Get(ctx context.Context, userID int64) (fitness.User, error) {
	return s.roster.Get(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, patch fitness.ProfilePatch) (fitness.User, error) {
	return s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		profile := u.Profile.Merge(patch)
		if err := profile.Validate(); err != nil {
			return fitness.User{}, err
		}
		if profile == u.Profile {
			return u, fitness.ErrNoChange
		}
		u.Profile = profile
		return u, nil
	})
}

func (s *Service) UpdateGoals(ctx context.Context, userID int64, patch fitness.GoalsPatch) (fitness.User, error) {
	return s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		goals := u.Goals.Merge(patch)
		if err := goals.Validate(); err != nil {
			return fitness.User{}, err
		}
		if goals == u.Goals {
			return u, fitness.ErrNoChange
		}
		u.Goals = goals
		return u, nil
	})
}
