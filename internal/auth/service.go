package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/thumbs/svg?seed="

// Service registers players and logs them in.
type Service struct {
	store    PlayerStore
	tokens   *Tokens
	metrics  metrics.Metrics
	validate *validator.Validate
	now      func() time.Time
}

// Session is a logged in player and their token.
type Session struct {
	Player ladder.Player `json:"player"`
	Token  string        `json:"token"`
}

type registration struct {
	Name string `validate:"required,max=32"`
	Pin  string `validate:"required,number,min=4,max=12"`
}

// NewService creates a new auth Service.
func NewService(store PlayerStore, tokens *Tokens, metrics metrics.Metrics) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		metrics:  metrics,
		validate: validator.New(),
		now:      time.Now,
	}
}

// AvatarURL is the generated avatar of a player name.
func AvatarURL(name string) string {
	return avatarBaseURL + url.QueryEscape(name)
}

// Register creates a player with the default rating. The name is trimmed and
// must be unique ignoring case. The PIN is 4 to 12 digits.
func (s *Service) Register(ctx context.Context, name, pin string) (Session, error) {
	req := registration{Name: strings.TrimSpace(name), Pin: pin}
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return Session{}, registrationError(err)
	}

	cred, err := HashCredential(pin)
	if err != nil {
		return Session{}, err
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	player := ladder.Player{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Rating:    ladder.DefaultRating,
		Avatar:    AvatarURL(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.AppendPlayer(ctx, player, cred); err != nil {
		log.Warn("Registration failed", "name", req.Name, "error", err)
		return Session{}, err
	}
	s.metrics.IncPlayersRegistered()
	log.Info("Registered player", "playerID", player.ID, "name", player.Name)

	return s.session(player)
}

// Login checks a PIN against the stored digest.
func (s *Service) Login(ctx context.Context, playerID, pin string) (Session, error) {
	if playerID == "" || pin == "" {
		return Session{}, fmt.Errorf("%w: player id and PIN required", ladder.ErrValidation)
	}

	cred, err := s.store.GetCredential(ctx, playerID)
	if errors.Is(err, ladder.ErrNotFound) {
		s.metrics.IncLoginFailed()
		return Session{}, fmt.Errorf("%w: unknown player", ladder.ErrInvalidCredentials)
	}
	if err != nil {
		return Session{}, err
	}
	if !VerifyCredential(pin, cred.Hash, cred.Salt) {
		s.metrics.IncLoginFailed()
		log.Info("Rejected login", "playerID", playerID)
		return Session{}, fmt.Errorf("%w: wrong PIN", ladder.ErrInvalidCredentials)
	}

	player, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return Session{}, err
	}
	log.Debug("Player logged in", "playerID", playerID)
	return s.session(player)
}

// Authenticate returns the player id a session token was issued for.
func (s *Service) Authenticate(token string) (string, error) {
	return s.tokens.Parse(token)
}

func (s *Service) session(player ladder.Player) (Session, error) {
	token, err := s.tokens.Issue(player.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Player: player, Token: token}, nil
}

func registrationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Pin" {
				return fmt.Errorf("%w: PIN must be 4 to 12 digits", ladder.ErrInvalidPin)
			}
		}
		return fmt.Errorf("%w: name is required and at most 32 characters", ladder.ErrValidation)
	}
	return fmt.Errorf("%w: %v", ladder.ErrValidation, err)
}
