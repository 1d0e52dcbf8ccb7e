package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"crmhub/internal/apperrors"
	"crmhub/internal/authz"
	"crmhub/internal/logging"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
	"crmhub/internal/utils"
)

const (
	minPasswordLength = 6
	// touchInterval limits how often last_active_at is written for one session.
	touchInterval = time.Minute
	// leeway for access token expiry checks
	jwtLeeway = 2 * time.Minute
)

// Claims is the access token payload.
type Claims struct {
	UserID    string `json:"user_id"`
	RoleID    int    `json:"role_id"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	User         *models.User    `json:"user"`
	Session      *models.Session `json:"session"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type AuthService struct {
	Users    repositories.UserRepository
	Sessions repositories.SessionRepository
	Audit    *AuditService
	Email    EmailService

	secret     []byte
	accessTTL  time.Duration
	sessionTTL time.Duration
}

func NewAuthService(users repositories.UserRepository, sessions repositories.SessionRepository, audit *AuditService,
	email EmailService, secret string, accessTTL, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		Users:      users,
		Sessions:   sessions,
		Audit:      audit,
		Email:      email,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		sessionTTL: sessionTTL,
	}
}

func (s *AuthService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateUser registers an account. Used by the create-user command.
func (s *AuthService) CreateUser(ctx context.Context, fullName, email, password string, roleID int) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.Validation("Email is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.Validation("Password must be at least 6 characters long")
	}
	if !validRole(roleID) {
		return nil, apperrors.Validation("Unknown role")
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}
	u := &models.User{
		ID:           newID(),
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: hash,
		RoleID:       roleID,
		CreatedAt:    timeNow().UTC(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, apperrors.Internal("Failed to create user", err)
	}
	return u, nil
}

func validRole(roleID int) bool {
	switch roleID {
	case authz.RoleSales, authz.RoleOperations, authz.RoleAudit, authz.RoleManagement, authz.RoleAdmin:
		return true
	}
	return false
}

// Login checks the password, opens a session and records SESSION_START.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ip string) (*LoginResult, error) {
	invalid := apperrors.Unauthorized("Invalid email or password")

	user, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		logging.Logger.Info().Str("email", email).Msg("[auth][login] unknown email")
		return nil, invalid
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to sign in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(user.PasswordHash)), []byte(password)); err != nil {
		logging.Logger.Info().Str("user_id", user.ID).Msg("[auth][login] password mismatch")
		return nil, invalid
	}

	token, err := utils.NewSessionToken(32)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate session token", err)
	}
	now := timeNow().UTC()
	sess := &models.Session{
		ID:           newID(),
		UserID:       user.ID,
		Token:        token,
		UserAgent:    userAgent,
		Device:       utils.DeviceFromUserAgent(userAgent),
		IP:           ip,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(s.sessionTTL),
		Current:      true,
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, apperrors.Internal("Failed to create session", err)
	}

	access, exp, err := s.issueAccess(user, sess.ID, now)
	if err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, user.ID, models.AuditSessionStart, "auth", sess.ID, map[string]any{
		"user_agent": userAgent,
		"device":     sess.Device,
		"ip":         ip,
	})
	logging.Logger.Info().Str("user_id", user.ID).Str("session_id", sess.ID).Msg("[auth][login] success")
	return &LoginResult{User: user, Session: sess, AccessToken: access, RefreshToken: token, ExpiresAt: exp}, nil
}

// Refresh rotates the session token and issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	now := timeNow().UTC()
	presented := strings.TrimSpace(refreshToken)
	sess, err := s.Sessions.GetByToken(ctx, presented, now)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to refresh session", err)
	}
	user, err := s.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, repoError(err, "User")
	}

	token, err := utils.NewSessionToken(32)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate session token", err)
	}
	expires := now.Add(s.sessionTTL)
	if err := s.Sessions.Rotate(ctx, sess.ID, presented, token, expires); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid refresh token")
		}
		return nil, apperrors.Internal("Failed to refresh session", err)
	}
	sess.Token, sess.ExpiresAt, sess.Current = token, expires, true

	access, exp, err := s.issueAccess(user, sess.ID, now)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Session: sess, AccessToken: access, RefreshToken: token, ExpiresAt: exp}, nil
}

func (s *AuthService) issueAccess(user *models.User, sessionID string, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.accessTTL)
	claims := &Claims{
		UserID:    user.ID,
		RoleID:    user.RoleID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Internal("Failed to generate access token", err)
	}
	return signed, exp, nil
}

// ParseAccess validates signature and expiry of an access token.
func (s *AuthService) ParseAccess(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		// принимаем только HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithLeeway(jwtLeeway), jwt.WithExpirationRequired(), jwt.WithTimeFunc(timeNow))
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("Invalid or expired token").Wrap(err)
	}
	return claims, nil
}

// Authenticate resolves an access token to an Actor. Tokens of revoked or expired sessions are rejected.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (Actor, error) {
	claims, err := s.ParseAccess(tokenStr)
	if err != nil {
		return Actor{}, err
	}
	sess, err := s.Sessions.GetByID(ctx, claims.SessionID)
	if errors.Is(err, repositories.ErrNotFound) {
		return Actor{}, apperrors.Unauthorized("Session has ended")
	}
	if err != nil {
		return Actor{}, apperrors.Internal("Failed to check session", err)
	}
	now := timeNow().UTC()
	if sess.UserID != claims.UserID || !sess.Active(now) {
		return Actor{}, apperrors.Unauthorized("Session has ended")
	}
	if now.Sub(sess.LastActiveAt) > touchInterval {
		if err := s.Sessions.Touch(ctx, sess.ID, now); err != nil {
			logging.Logger.Warn().Err(err).Str("session_id", sess.ID).Msg("session touch failed")
		}
	}
	return Actor{UserID: claims.UserID, RoleID: claims.RoleID, SessionID: claims.SessionID}, nil
}

// ListSessions returns the caller's active sessions, newest first, with the current one flagged.
func (s *AuthService) ListSessions(ctx context.Context, actor Actor) ([]*models.Session, error) {
	sessions, err := s.Sessions.ListActive(ctx, actor.UserID, timeNow().UTC())
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch session data", err)
	}
	if sessions == nil {
		sessions = []*models.Session{}
	}
	for _, sess := range sessions {
		sess.Current = sess.ID == actor.SessionID
		if sess.Device == "" {
			sess.Device = utils.DeviceFromUserAgent(sess.UserAgent)
		}
	}
	return sessions, nil
}

func (s *AuthService) TerminateSession(ctx context.Context, actor Actor, sessionID string) error {
	if sessionID == actor.SessionID {
		return apperrors.Validation("Cannot end the current session").
			WithDescription("Use sign out to end the session you are using")
	}
	if err := s.Sessions.Revoke(ctx, sessionID, actor.UserID, timeNow().UTC()); err != nil {
		return repoError(err, "Session")
	}
	s.Audit.Record(ctx, actor.UserID, models.AuditSessionTerminated, "auth", sessionID, map[string]any{
		"terminated_by": "user",
		"session_id":    sessionID,
	})
	return nil
}

// TerminateOtherSessions revokes every session of the caller except the current one.
func (s *AuthService) TerminateOtherSessions(ctx context.Context, actor Actor) (int64, error) {
	n, err := s.Sessions.RevokeOthers(ctx, actor.UserID, actor.SessionID, timeNow().UTC())
	if err != nil {
		return 0, apperrors.Internal("Failed to sign out other sessions", err)
	}
	s.Audit.Record(ctx, actor.UserID, models.AuditAllSessionsTerminated, "auth", actor.SessionID, map[string]any{
		"terminated_sessions": n,
	})
	return n, nil
}

func (s *AuthService) SignOut(ctx context.Context, actor Actor) error {
	err := s.Sessions.Revoke(ctx, actor.SessionID, actor.UserID, timeNow().UTC())
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return apperrors.Internal("Failed to sign out", err)
	}
	s.Audit.Record(ctx, actor.UserID, models.AuditSignOut, "auth", actor.SessionID, nil)
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.Validation("Error").WithDescription("New passwords do not match")
	}
	if len(req.NewPassword) < minPasswordLength {
		return apperrors.Validation("Error").WithDescription("Password must be at least 6 characters long")
	}
	user, err := s.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return repoError(err, "User")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperrors.Validation("Error").WithDescription("Current password is incorrect")
	}
	hash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Internal("Failed to update password", err)
	}
	if err := s.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return repoError(err, "User")
	}

	changedAt := timeNow().UTC()
	s.Audit.Record(ctx, user.ID, models.AuditPasswordChange, "auth", user.ID, map[string]any{
		"changed_at": changedAt.Format(time.RFC3339),
	})
	if s.Email != nil {
		if err := s.Email.SendPasswordChanged(user.Email, user.FullName, changedAt); err != nil {
			logging.Logger.Warn().Err(err).Str("user_id", user.ID).Msg("password change email not sent")
		}
	}
	return nil
}
