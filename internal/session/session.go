package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skylight-sports/storefront/internal/api"
	"github.com/skylight-sports/storefront/internal/validate"
	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
)

const (
	userDoc  = "currentUser"
	tokenDoc = "authToken"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the authenticated identity persisted in the local store.
type User struct {
	ID    string `json:"user_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
}

type docStore interface {
	GetDoc(ctx context.Context, name string, dest any) (bool, error)
	PutDoc(ctx context.Context, name string, value any) error
	DelDoc(ctx context.Context, names ...string) error
}

// Service owns the current user and auth token. The token is stored
// opaquely; the client never validates signatures, it only peeks at
// claims for expiry hints.
type Service struct {
	api   authAPI
	store docStore
}

func NewService(authClient authAPI, store docStore) (*Service, error) {
	if authClient == nil {
		return nil, errors.New("auth api is required")
	}
	if store == nil {
		return nil, errors.New("doc store is required")
	}
	return &Service{api: authClient, store: store}, nil
}

type credentialsForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates an account and signs the session in.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if err := validate.Struct(credentialsForm{Email: email, Password: password}); err != nil {
		return nil, err
	}
	resp, err := s.api.Register(ctx, api.RegisterRequest{Email: email, Password: password, Role: RoleUser})
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, resp)
}

// Login authenticates and persists the session.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	if err := validate.Struct(credentialsForm{Email: email, Password: password}); err != nil {
		return nil, err
	}
	resp, err := s.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, resp)
}

func (s *Service) persist(ctx context.Context, resp *api.AuthResponse) (*User, error) {
	user := &User{ID: resp.UserID, Email: resp.Email, Role: resp.Role}
	if err := s.store.PutDoc(ctx, userDoc, user); err != nil {
		return nil, err
	}
	if err := s.store.PutDoc(ctx, tokenDoc, resp.AccessToken); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout drops the stored identity and token.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.DelDoc(ctx, userDoc, tokenDoc)
}

// CurrentUser returns the stored user, or nil when signed out.
func (s *Service) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	found, err := s.store.GetDoc(ctx, userDoc, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// Token returns the stored bearer token, empty when signed out.
func (s *Service) Token(ctx context.Context) (string, error) {
	var token string
	found, err := s.store.GetDoc(ctx, tokenDoc, &token)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	return token, nil
}

// RequireAdmin gates admin flows on a stored token plus the admin role.
func (s *Service) RequireAdmin(ctx context.Context) error {
	token, err := s.Token(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil || user.Role != RoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	if expired, err := tokenExpired(token, time.Now()); err == nil && expired {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired, sign in again")
	}
	return nil
}

// tokenExpired inspects the exp claim without verifying the signature;
// signature checks belong to the backend.
func tokenExpired(token string, now time.Time) (bool, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, err
	}
	return exp.Before(now), nil
}
