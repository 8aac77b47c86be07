// Package jwtauth is an invocation filter that authenticates bearer tokens and
// optionally requires a role.
//
// Declare it on an action as a filter named "auth". The "role" argument names
// the required role and "users" is a comma-separated list of allowed usernames.
package jwtauth

import (
	"context"
	"errors"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/invoke"
	"go.uber.org/zap"
)

// Name is the filter name actions declare.
const Name = "auth"

// UserKey is the invoke.Context item the authenticated User is stored under.
const UserKey = "jwtauth.user"

var (
	ErrMissingToken = errors.New("jwtauth: missing bearer token")
	ErrInvalidToken = errors.New("jwtauth: invalid token")
	ErrForbidden    = errors.New("jwtauth: not permitted")
)

type User struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether u carries role (case-insensitive).
func (u User) HasRole(role string) bool {
	return slices.ContainsFunc(u.Roles, func(r string) bool { return strings.EqualFold(r, role) })
}

// Config configures Authenticator. Secret is required.
type Config struct {
	Secret    []byte
	Issuer    string
	Audience  string
	AdminRole string
	Leeway    time.Duration
}

// ConfigFromEnv reads JWT_HMAC_SECRET, JWT_ISSUER, JWT_AUDIENCE,
// JWT_ADMIN_ROLE and JWT_LEEWAY.
func ConfigFromEnv() Config {
	c := Config{
		Secret:    []byte(os.Getenv("JWT_HMAC_SECRET")),
		Issuer:    os.Getenv("JWT_ISSUER"),
		Audience:  os.Getenv("JWT_AUDIENCE"),
		AdminRole: os.Getenv("JWT_ADMIN_ROLE"),
		Leeway:    30 * time.Second,
	}
	if v := os.Getenv("JWT_LEEWAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Leeway = d
		}
	}
	return c
}

type Authenticator struct {
	cfg    Config
	parser *jwt.Parser
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Authenticator{cfg: cfg, parser: jwt.NewParser(opts...), log: log}
}

type claims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid"`
	Role  string   `json:"role"`
	Roles []string `json:"roles"`
}

// Validate parses raw and returns its user.
func (a *Authenticator) Validate(raw string) (User, error) {
	if len(a.cfg.Secret) == 0 {
		return User{}, errors.New("jwtauth: secret not configured")
	}
	var c claims
	tok, err := a.parser.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return a.cfg.Secret, nil
	})
	if err != nil || !tok.Valid {
		return User{}, ErrInvalidToken
	}

	username := c.UID
	if username == "" {
		username = c.Subject
	}
	if username == "" {
		return User{}, ErrInvalidToken
	}
	roles := c.Roles
	if c.Role != "" && !slices.Contains(roles, c.Role) {
		roles = append([]string{c.Role}, roles...)
	}
	return User{Username: username, Roles: roles}, nil
}

// Filter authenticates the request and enforces the "role" argument.
func (a *Authenticator) Filter(ctx context.Context, ic *invoke.Context, f action.Filter, next invoke.Next) error {
	raw, ok := bearer(ic.Request)
	if !ok {
		return &invoke.StatusError{Status: http.StatusUnauthorized, Err: ErrMissingToken}
	}
	u, err := a.Validate(raw)
	if err != nil {
		a.log.Debug("token rejected", zap.String("action", ic.Action.String()), zap.Error(err))
		return &invoke.StatusError{Status: http.StatusUnauthorized, Err: err}
	}
	if !a.allowed(u, f.Args) {
		return &invoke.StatusError{Status: http.StatusForbidden, Err: ErrForbidden}
	}
	ic.Items[UserKey] = u
	return next(ctx)
}

// allowed applies the filter arguments. The admin role passes every check.
func (a *Authenticator) allowed(u User, args map[string]string) bool {
	if a.cfg.AdminRole != "" && u.HasRole(a.cfg.AdminRole) {
		return true
	}
	if users := args["users"]; users != "" {
		ok := false
		for _, name := range strings.Split(users, ",") {
			if strings.TrimSpace(name) == u.Username {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if role := args["role"]; role != "" && !u.HasRole(role) {
		return false
	}
	return true
}

// Register adds the filter to fs under Name.
func (a *Authenticator) Register(fs *invoke.Filters) { fs.Register(Name, a.Filter) }

// UserFrom returns the user the filter stored on items.
func UserFrom(items map[string]any) (User, bool) {
	u, ok := items[UserKey].(User)
	return u, ok
}

func bearer(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}
