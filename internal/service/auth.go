package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
	"github.com/yusufkecer/vitals-media-backend/internal/token"
)

const (
	minPasswordLength = 6
	maxEmailLength    = 255
	maxUsernameLength = 100
)

type AuthService struct {
	users   UserStore
	tokens  TokenManager
	revoked Revoker
	now     func() time.Time
	logger  *logger.Logger
}

func NewAuthService(users UserStore, tokens TokenManager, revoked Revoker, now func() time.Time, logger *logger.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoked: revoked, now: now, logger: logger}
}

// Register creates the user together with its initial weight and height samples.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (domain.TokenResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	username, err := normalizeUsername(req.Username)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	if err := checkPassword(req.Password); err != nil {
		return domain.TokenResponse{}, err
	}
	birthdate, err := parseBirthdate(req.Birthdate)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	gender, ok := domain.ParseGender(string(req.Gender))
	if !ok {
		return domain.TokenResponse{}, fmt.Errorf("%w: gender must be %s or %s", domain.ErrInvalidArgument, domain.GenderMale, domain.GenderFemale)
	}

	weight, height := domain.MustKind(domain.KindWeight), domain.MustKind(domain.KindHeight)
	if err := weight.Columns[0].Check(req.Weight); err != nil {
		return domain.TokenResponse{}, fmt.Errorf("%w: weight: %v", domain.ErrInvalidArgument, err)
	}
	if err := height.Columns[0].Check(req.Height); err != nil {
		return domain.TokenResponse{}, fmt.Errorf("%w: height: %v", domain.ErrInvalidArgument, err)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	now := s.now().UTC().Truncate(time.Second)
	user := domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Birthdate:    birthdate,
		Gender:       gender,
		CreatedAt:    now,
	}

	id, err := s.users.Create(ctx, user,
		domain.Measurement{Spec: weight, Sample: domain.Sample{Date: now, Values: []any{req.Weight}}},
		domain.Measurement{Spec: height, Sample: domain.Sample{Date: now, Values: []any{req.Height}}},
	)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.TokenResponse{}, fmt.Errorf("%w: email or username already exists", domain.ErrConflict)
		}
		return domain.TokenResponse{}, err
	}

	s.logger.Info("user registered", "user_id", id)
	return s.issue(id)
}

// Login accepts the username or the email as the login name.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error) {
	login := strings.TrimSpace(req.Username)
	if login == "" || req.Password == "" {
		return domain.TokenResponse{}, fmt.Errorf("%w: username and password are required", domain.ErrInvalidArgument)
	}
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	if user == nil {
		s.logger.Warn("login failed", "reason", "unknown user")
		return domain.TokenResponse{}, fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login failed", "reason", "wrong password", "user_id", user.ID)
		return domain.TokenResponse{}, fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
	}

	return s.issue(user.ID)
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *AuthService) Authenticate(raw string) (*token.Claims, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	if s.revoked.IsRevoked(claims.ID) {
		return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
	}
	return claims, nil
}

func (s *AuthService) Logout(claims *token.Claims) {
	s.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if user == nil {
		return domain.Profile{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	return user.Profile(), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (domain.Profile, error) {
	if upd.Empty() {
		return domain.Profile{}, fmt.Errorf("%w: no fields to update", domain.ErrInvalidArgument)
	}

	var changes domain.UserChanges
	if upd.Email != nil {
		email, err := normalizeEmail(*upd.Email)
		if err != nil {
			return domain.Profile{}, err
		}
		changes.Email = &email
	}
	if upd.Username != nil {
		username, err := normalizeUsername(*upd.Username)
		if err != nil {
			return domain.Profile{}, err
		}
		changes.Username = &username
	}
	if upd.Password != nil {
		if err := checkPassword(*upd.Password); err != nil {
			return domain.Profile{}, err
		}
		hash, err := hashPassword(*upd.Password)
		if err != nil {
			return domain.Profile{}, err
		}
		changes.PasswordHash = &hash
	}
	if upd.Birthdate != nil {
		birthdate, err := parseBirthdate(*upd.Birthdate)
		if err != nil {
			return domain.Profile{}, err
		}
		changes.Birthdate = &birthdate
	}
	if upd.Gender != nil {
		gender, ok := domain.ParseGender(string(*upd.Gender))
		if !ok {
			return domain.Profile{}, fmt.Errorf("%w: gender must be %s or %s", domain.ErrInvalidArgument, domain.GenderMale, domain.GenderFemale)
		}
		changes.Gender = &gender
	}

	if err := s.users.Update(ctx, userID, changes); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Profile{}, fmt.Errorf("%w: email or username already exists", domain.ErrConflict)
		}
		return domain.Profile{}, err
	}
	return s.Profile(ctx, userID)
}

// DeleteAccount removes the user and every sample it owns, then revokes the token in use.
func (s *AuthService) DeleteAccount(ctx context.Context, claims *token.Claims) error {
	if err := s.users.Delete(ctx, claims.UserID); err != nil {
		return err
	}
	s.Logout(claims)
	s.logger.Info("user deleted", "user_id", claims.UserID)
	return nil
}

func (s *AuthService) issue(userID int64) (domain.TokenResponse, error) {
	issued, err := s.tokens.Issue(userID)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	return domain.TokenResponse{UserID: userID, Token: issued.Value, ExpiresAt: issued.ExpiresAt}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	at := strings.Index(email, "@")
	if at <= 0 || !strings.Contains(email[at:], ".") {
		return "", fmt.Errorf("%w: invalid email format", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return "", fmt.Errorf("%w: email must be at most %d characters", domain.ErrInvalidArgument, maxEmailLength)
	}
	return email, nil
}

// normalizeUsername trims the name and rejects "@" so a username can never be read as an email at login.
func normalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", domain.ErrInvalidArgument)
	}
	if strings.Contains(username, "@") {
		return "", fmt.Errorf("%w: username must not contain @", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return "", fmt.Errorf("%w: username must be at most %d characters", domain.ErrInvalidArgument, maxUsernameLength)
	}
	return username, nil
}

func checkPassword(p string) error {
	if len(p) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, minPasswordLength)
	}
	return nil
}

func hashPassword(p string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func parseBirthdate(raw string) (time.Time, error) {
	t, err := time.Parse(domain.BirthdateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birthdate must be YYYY-MM-DD", domain.ErrInvalidArgument)
	}
	return t, nil
}
