package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/donamatch/internal/apperr"
	"github.com/erazemk/donamatch/internal/auth"
	"github.com/erazemk/donamatch/internal/model"
	"github.com/erazemk/donamatch/internal/store"
)

// MaxUsernameLength bounds usernames.
const MaxUsernameLength = 64

// RegisterInput carries a self-service signup.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates a donor or recipient account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperr.Validation("username must be at most %d characters", MaxUsernameLength)
	}
	if !model.SelfServiceRole(in.Role) {
		return nil, apperr.Validation("role must be %q or %q", model.RoleDonor, model.RoleRecipient)
	}
	email := model.NormalizeEmail(in.Email)
	if err := model.ValidateEmail(email); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, err.Error())
	}
	if err := model.ValidatePassword(in.Password); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, err.Error())
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := store.CreateUser(ctx, s.DB, username, email, hash, in.Role)
	if err != nil {
		return nil, translate(err)
	}

	slog.Info("user registered", "user", user.Username, "role", user.Role)
	return user, nil
}

// Login checks credentials and issues a token. login may be a username or
// an email address.
func (s *Service) Login(ctx context.Context, login, password string) (string, *model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", nil, apperr.Validation("username and password required")
	}

	user, err := store.GetUserByLogin(ctx, s.DB, login)
	if err != nil {
		return "", nil, err
	}
	if user == nil || user.DeletedAt != nil || !auth.CheckPassword(user.PasswordHash, password) {
		slog.Warn("login failed", "login", login)
		return "", nil, apperr.Unauthenticated("invalid credentials")
	}

	token, err := auth.GenerateToken(s.JWTSecret, user, s.TokenTTL)
	if err != nil {
		return "", nil, err
	}

	slog.Info("user logged in", "user", user.Username, "role", user.Role)
	return token, user, nil
}

// Authenticate validates a bearer token and resolves it to an Actor. The
// role is taken from the current user record so role changes and deletions
// apply to tokens that are already issued.
func (s *Service) Authenticate(ctx context.Context, token string) (model.Actor, *auth.Claims, error) {
	claims, err := auth.ValidateToken(s.JWTSecret, token)
	if err != nil {
		return model.Actor{}, nil, apperr.Wrap(apperr.KindUnauthenticated, err, "invalid token")
	}

	revoked, err := store.IsTokenRevoked(ctx, s.DB, claims.ID)
	if err != nil {
		return model.Actor{}, nil, err
	}
	if revoked {
		return model.Actor{}, nil, apperr.Unauthenticated("token has been revoked")
	}

	user, err := store.GetUser(ctx, s.DB, claims.UserID)
	if err != nil {
		return model.Actor{}, nil, err
	}
	if user == nil || user.DeletedAt != nil {
		return model.Actor{}, nil, apperr.Unauthenticated("account no longer exists")
	}

	return model.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}, claims, nil
}

// Logout revokes the token described by claims.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperr.Unauthenticated("authentication required")
	}
	if err := store.RevokeToken(ctx, s.DB, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	slog.Info("user logged out", "user", claims.Username)
	return nil
}

// Me returns the actor's own account.
func (s *Service) Me(ctx context.Context, actor model.Actor) (*model.User, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.getUser(ctx, actor.UserID)
}

// ChangePassword replaces the actor's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, actor model.Actor, current, next string) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if current == "" || next == "" {
		return apperr.Validation("current and new password required")
	}

	user, err := s.getUser(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return apperr.Forbidden("current password is incorrect")
	}

	if err := s.setPassword(ctx, user.ID, next); err != nil {
		return err
	}
	slog.Info("user changed own password", "user", actor.Username)
	return nil
}

// ListUsers returns active users, optionally with one role. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor model.Actor, role string) ([]model.User, error) {
	if err := requireAdmin(actor, "list users"); err != nil {
		return nil, err
	}
	if role != "" && !model.ValidRole(role) {
		return nil, apperr.Validation("unknown role %q", role)
	}
	return store.ListUsers(ctx, s.DB, role)
}

// GetUser returns any user. Admin only.
func (s *Service) GetUser(ctx context.Context, actor model.Actor, id int64) (*model.User, error) {
	if err := requireAdmin(actor, "view users"); err != nil {
		return nil, err
	}
	return s.getUser(ctx, id)
}

// SetUserRole changes a user's role. The last admin cannot be demoted.
func (s *Service) SetUserRole(ctx context.Context, actor model.Actor, id int64, role string) (*model.User, error) {
	if err := requireAdmin(actor, "change roles"); err != nil {
		return nil, err
	}
	if !model.ValidRole(role) {
		return nil, apperr.Validation("unknown role %q", role)
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == model.RoleAdmin && role != model.RoleAdmin {
		if err := s.requireOtherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	if err := store.UpdateUserRole(ctx, s.DB, id, role); err != nil {
		return nil, translate(err)
	}
	slog.Info("user role changed", "user", user.Username, "from", user.Role, "to", role, "by", actor.Username)
	return s.getUser(ctx, id)
}

// ResetPassword sets another user's password. Admin only.
func (s *Service) ResetPassword(ctx context.Context, actor model.Actor, id int64, password string) error {
	if err := requireAdmin(actor, "reset passwords"); err != nil {
		return err
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, id, password); err != nil {
		return err
	}
	slog.Info("password reset", "user", user.Username, "by", actor.Username)
	return nil
}

// DeleteUser soft-deletes a user. Admins cannot delete themselves and the
// last admin cannot be removed.
func (s *Service) DeleteUser(ctx context.Context, actor model.Actor, id int64) error {
	if err := requireAdmin(actor, "delete users"); err != nil {
		return err
	}
	if id == actor.UserID {
		return apperr.Conflict("cannot delete your own account")
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleAdmin {
		if err := s.requireOtherAdmin(ctx); err != nil {
			return err
		}
	}

	if err := store.DeleteUser(ctx, s.DB, id); err != nil {
		return translate(err)
	}
	slog.Info("user deleted", "user", user.Username, "by", actor.Username)
	return nil
}

func (s *Service) getUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := store.GetUser(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.DeletedAt != nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return user, nil
}

func (s *Service) setPassword(ctx context.Context, id int64, password string) error {
	if err := model.ValidatePassword(password); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, err.Error())
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return translate(store.UpdateUserPassword(ctx, s.DB, id, hash))
}

func (s *Service) requireOtherAdmin(ctx context.Context) error {
	n, err := store.CountAdmins(ctx, s.DB)
	if err != nil {
		return fmt.Errorf("checking admins: %w", err)
	}
	if n <= 1 {
		return apperr.Conflict("cannot remove the last admin")
	}
	return nil
}
