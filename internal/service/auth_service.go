package service

import (
	"context"
	"strings"

	"fxportal/internal/domain"
	"fxportal/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup and login.
type AuthService struct {
	users *repository.UserRepository
}

func NewAuthService(db *pgxpool.Pool) *AuthService {
	return &AuthService{users: repository.NewUserRepository(db)}
}

type SignupRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	ReferralCode string `json:"referral_code"`
}

// Signup registers a new user. When a referral code (the introducer's
// username) is supplied, the relationship starts as pending until an admin
// accepts it; commission never accrues before that.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(username) < 3 || len(username) > 32 {
		return nil, validationErr("username must be 3-32 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, validationErr("invalid email")
	}
	if len(req.Password) < 8 {
		return nil, validationErr("password must be at least 8 characters")
	}

	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, validationErr("email already registered")
	}
	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, validationErr("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Country:      strings.TrimSpace(req.Country),
	}

	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		referrer, err := s.users.GetByUsername(ctx, code)
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, validationErr("unknown referral code")
		}
		user.ReferredBy = &referrer.ID
		user.ReferralStatus = domain.ReferralStatusPending
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user. The caller issues the JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}
