package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/inkwellhq/inkwell/internal/server/domain"
	"github.com/inkwellhq/inkwell/internal/server/identity"
	"github.com/inkwellhq/inkwell/internal/server/store"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

var (
	ErrFullnameTooShort = errors.New("fullname must be at least 3 letters long")
	ErrInvalidEmail     = errors.New("email is invalid")
	ErrWeakPassword     = errors.New("password should be 6 to 20 characters long with a numeric, 1 lowercase and 1 uppercase letter")

	ErrEmailTaken    = errors.New("email already exists")
	ErrEmailNotFound = errors.New("email not found")
	ErrWrongPassword = errors.New("incorrect password")

	// ErrUseGoogleLogin guards accounts created via Google from password
	// signin; there is no hash to compare against.
	ErrUseGoogleLogin = errors.New("account was created using google, try logging in with google")

	// ErrUseLocalLogin is the mirror guard: a locally-created account must
	// not be taken over through a federated assertion for the same email.
	ErrUseLocalLogin = errors.New("this email was signed up without google, please log in with password")
)

const minFullnameLen = 3

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Session is the response envelope shared by signup, signin, and google-auth.
type Session struct {
	AccessToken string `json:"access_token"`
	Fullname    string `json:"fullname"`
	Username    string `json:"username"`
	ProfileImg  string `json:"profile_img"`
}

// AuthService orchestrates local signup/signin and federated sign-in,
// composing the hasher, the identity verifier, the user store, and the token
// signer into session envelopes.
type AuthService struct {
	Store    store.Store
	Identity identity.Verifier
	Signer   jwtx.Signer
}

// Signup creates a local account and returns a fresh session.
func (s *AuthService) Signup(ctx context.Context, fullname, email, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	fullname = strings.TrimSpace(fullname)
	email = strings.ToLower(strings.TrimSpace(email))

	if len([]rune(fullname)) < minFullnameLen {
		return Session{}, ErrFullnameTooShort
	}
	if email == "" || !emailPattern.MatchString(email) {
		return Session{}, ErrInvalidEmail
	}
	if !strongPassword(password) {
		return Session{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return Session{}, err
	}

	username, err := s.allocateUsername(ctx, email)
	if err != nil {
		log.Error("failed to allocate username", slog.Any("error", err))
		return Session{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Fullname:     fullname,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		GoogleAuth:   false,
		ProfileImg:   defaultAvatar(username),
	}

	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// A concurrent signup or an existing account holds this email;
			// the unique index is the authoritative signal.
			return Session{}, ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("user signed up",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return s.newSession(user)
}

// Signin authenticates a local account by email and password.
func (s *AuthService) Signin(ctx context.Context, email, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrEmailNotFound
		}
		log.Error("failed to fetch user by email", slog.Any("error", err))
		return Session{}, err
	}

	if user.GoogleAuth || user.PasswordHash == "" {
		return Session{}, ErrUseGoogleLogin
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return Session{}, ErrWrongPassword
		}
		// The comparison engine itself failed; never report this as bad
		// credentials.
		log.Error("password verification failed", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("user signed in", slog.String("user_id", user.ID))

	return s.newSession(user)
}

// GoogleAuth signs in (or signs up on first contact) with a Google ID token.
func (s *AuthService) GoogleAuth(ctx context.Context, assertion string) (Session, error) {
	log := slogx.FromContext(ctx)

	id, err := s.Identity.Verify(ctx, assertion)
	if err != nil {
		if errors.Is(err, identity.ErrUntrustedAssertion) {
			log.Warn("google assertion rejected", slog.Any("error", err))
			return Session{}, err
		}
		log.Error("google verification failed", slog.Any("error", err))
		return Session{}, err
	}

	user, err := s.Store.Users().GetByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if !user.GoogleAuth {
			return Session{}, ErrUseLocalLogin
		}
		return s.newSession(user)

	case errors.Is(err, store.ErrNotFound):
		return s.createGoogleUser(ctx, id)

	default:
		log.Error("failed to fetch user by email", slog.Any("error", err))
		return Session{}, err
	}
}

// createGoogleUser provisions an account for a first-time federated sign-in.
// Find-or-create is racy across concurrent requests; the unique index on
// email settles it, and the loser re-reads the winner's row once.
func (s *AuthService) createGoogleUser(ctx context.Context, id identity.Identity) (Session, error) {
	log := slogx.FromContext(ctx)

	username, err := s.allocateUsername(ctx, id.Email)
	if err != nil {
		log.Error("failed to allocate username", slog.Any("error", err))
		return Session{}, err
	}

	profileImg := id.Picture
	if profileImg == "" {
		profileImg = defaultAvatar(username)
	}
	fullname := id.Name
	if fullname == "" {
		fullname = username
	}

	user := domain.User{
		ID:         idx.New().String(),
		Fullname:   fullname,
		Username:   username,
		Email:      id.Email,
		GoogleAuth: true,
		ProfileImg: profileImg,
	}

	err = s.Store.Users().Create(ctx, user)
	if err == nil {
		log.Info("user signed up via google",
			slog.String("user_id", user.ID),
			slog.String("username", user.Username),
		)
		return s.newSession(user)
	}

	if errors.Is(err, store.ErrAlreadyExists) {
		existing, lookupErr := s.Store.Users().GetByEmail(ctx, id.Email)
		if lookupErr != nil {
			log.Error("post-conflict lookup failed", slog.Any("error", lookupErr))
			return Session{}, lookupErr
		}
		if !existing.GoogleAuth {
			return Session{}, ErrUseLocalLogin
		}
		return s.newSession(existing)
	}

	log.Error("failed to create google user", slog.Any("error", err))
	return Session{}, err
}

func (s *AuthService) newSession(user domain.User) (Session, error) {
	token, err := s.Signer.Sign(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue session token: %w", err)
	}

	return Session{
		AccessToken: token,
		Fullname:    user.Fullname,
		Username:    user.Username,
		ProfileImg:  user.ProfileImg,
	}, nil
}

// strongPassword enforces 6-20 characters with at least one digit, one
// lowercase, and one uppercase letter.
func strongPassword(password string) bool {
	runes := []rune(password)
	if len(runes) < 6 || len(runes) > 20 {
		return false
	}

	var digit, lower, upper bool
	for _, r := range runes {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}

// defaultAvatar returns a deterministic generated avatar for accounts that
// arrive without a profile picture.
func defaultAvatar(username string) string {
	return "https://api.dicebear.com/9.x/identicon/svg?seed=" + url.QueryEscape(username)
}
