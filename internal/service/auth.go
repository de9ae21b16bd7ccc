package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// dummyHash is compared against when the username does not exist, so a
// failed lookup costs the same bcrypt work as a failed password.
var dummyHash = mustHash("vidvault-timing-equalizer")

func mustHash(s string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

type AuthService struct {
	users     repository.UserRepository
	companies *CompanyService
}

func NewAuthService(users repository.UserRepository, companies *CompanyService) *AuthService {
	return &AuthService{
		users:     users,
		companies: companies,
	}
}

// Register creates a local-credential account. The company is resolved by
// case-insensitive name, created on first use. Usernames are unique by
// exact match: "Alice" and "alice" are distinct accounts.
func (s *AuthService) Register(username, email, password, companyName string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateUsername(username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var companyID *string
	if companyName != "" {
		company, err := s.companies.FindOrCreate(companyName)
		if err != nil {
			return nil, err
		}
		companyID = &company.ID
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        &email,
		PasswordHash: hash,
		CompanyID:    companyID,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	err = s.users.Create(user)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login authenticates by username and password. Missing user and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.ByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn the same hashing work as a real comparison
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// UpdateProfileParams carries optional field changes; nil means keep.
type UpdateProfileParams struct {
	Username  *string
	Email     *string
	CompanyID *string
	Role      *model.Role
}

// UpdateProfile applies profile changes to the given account. Role and
// company moves are reserved for admins.
func (s *AuthService) UpdateProfile(caller *model.User, id string, params UpdateProfileParams) (*model.User, error) {
	if (params.Role != nil || params.CompanyID != nil) && !caller.IsAdmin() {
		return nil, ErrAdminRequired
	}

	user, err := s.users.ByID(id)
	if err != nil {
		return nil, err
	}

	if params.Username != nil {
		username := strings.TrimSpace(*params.Username)
		err = validation.ValidateUsername(username)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.Username = username
	}

	if params.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*params.Email))
		err = validation.ValidateEmail(email)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.Email = &email
	}

	if params.CompanyID != nil {
		if *params.CompanyID == "" {
			user.CompanyID = nil
		} else {
			_, err = s.companies.ByID(*params.CompanyID)
			if err != nil {
				return nil, err
			}
			user.CompanyID = params.CompanyID
		}
	}

	if params.Role != nil {
		user.Role = *params.Role
	}

	err = s.users.Update(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePassword rehashes and replaces the stored credential.
func (s *AuthService) ChangePassword(id, newPassword string) error {
	err := validation.ValidatePassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.users.ByID(id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	err = s.users.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password changed", "user_id", id)
	return nil
}

// FindOrCreateFromExternalProfile resolves a Google login to an account:
// by external id first, then by email (linking the external id), else a
// new account. Used only at login time; it grants no privileges.
func (s *AuthService) FindOrCreateFromExternalProfile(googleID, email, displayName string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.ByGoogleID(googleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	if email != "" {
		user, err = s.users.ByEmail(email)
		if err == nil {
			// Link the external identity to the existing account
			user.GoogleID = &googleID
			err = s.users.Update(user)
			if err != nil {
				return nil, fmt.Errorf("failed to link external identity: %w", err)
			}
			slog.Info("external identity linked", "user_id", user.ID)
			return user, nil
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to lookup user: %w", err)
		}
	}

	// New account. The placeholder credential is random and never
	// revealed, so local login on this account always fails the hash
	// comparison.
	placeholder, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder credential: %w", err)
	}
	hash, err := s.HashPassword(placeholder)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder credential: %w", err)
	}

	username := usernameFromProfile(displayName, email)

	user = &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
		GoogleID:     &googleID,
		CreatedAt:    time.Now(),
	}
	if email != "" {
		user.Email = &email
	}

	err = s.users.Create(user)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		// Someone already holds the derived name; disambiguate once
		user.Username = fmt.Sprintf("%s_%s", truncate(username, 21), uuid.New().String()[:8])
		err = s.users.Create(user)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new external-identity user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func generateSecret() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// usernameFromProfile derives a valid username from the external profile,
// falling back to the email local part, then to a generated name.
func usernameFromProfile(displayName, email string) string {
	candidate := sanitizeUsername(displayName)
	if candidate == "" && email != "" {
		local, _, _ := strings.Cut(email, "@")
		candidate = sanitizeUsername(local)
	}
	if len(candidate) < 3 {
		candidate = "user_" + uuid.New().String()[:8]
	}
	return truncate(candidate, 30)
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '.', r == '-':
			b.WriteByte('_')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
