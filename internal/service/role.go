package service

import (
	"context"
	"errors"
	"fmt"

	"baristabot/internal/access"
	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"go.uber.org/zap"
)

// RoleService resolves roles and guards every role mutation
type RoleService struct {
	users  repository.UserRepository
	tx     repository.TxRunner
	logger *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(users repository.UserRepository, tx repository.TxRunner, logger *zap.Logger) *RoleService {
	return &RoleService{
		users:  users,
		tx:     tx,
		logger: logger,
	}
}

// EnsureAccount creates the account with Guest role on first contact and
// returns the current role. Storage failures degrade to Guest.
func (s *RoleService) EnsureAccount(ctx context.Context, profile domain.User) domain.Role {
	user, err := s.users.Get(ctx, profile.UserID)
	if err == nil {
		return s.parseStored(user)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("Failed to load user role, using guest",
			zap.Int64("user_id", profile.UserID),
			zap.Error(err),
		)
		return domain.RoleGuest
	}

	profile.Role = domain.RoleGuest
	created, err := s.users.Create(ctx, profile)
	if err != nil {
		s.logger.Error("Failed to create user account",
			zap.Int64("user_id", profile.UserID),
			zap.Error(err),
		)
		return domain.RoleGuest
	}
	if created {
		s.logger.Info("User account created", zap.Int64("user_id", profile.UserID))
	}
	return domain.RoleGuest
}

// RoleOf returns the persisted role, creating a Guest account if none exists
func (s *RoleService) RoleOf(ctx context.Context, userID int64) domain.Role {
	return s.EnsureAccount(ctx, domain.User{UserID: userID})
}

func (s *RoleService) parseStored(user *domain.User) domain.Role {
	role, err := domain.ParseRole(string(user.Role))
	if err != nil {
		s.logger.Warn("Unknown stored role, using guest",
			zap.Int64("user_id", user.UserID),
			zap.String("role", string(user.Role)),
		)
		return domain.RoleGuest
	}
	return role
}

// HasCapability reports whether the user's role grants c
func (s *RoleService) HasCapability(ctx context.Context, userID int64, c domain.Capability) bool {
	return access.CapabilitiesOf(s.RoleOf(ctx, userID)).Has(c)
}

// SetRole persists role for userID. On storage failure Guest is returned and
// nothing is written. Demoting the last admin fails with domain.ErrLastAdmin
// and the admin role is returned unchanged.
func (s *RoleService) SetRole(ctx context.Context, userID int64, role domain.Role) (domain.Role, error) {
	if _, err := domain.ParseRole(string(role)); err != nil {
		return domain.RoleGuest, err
	}

	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		admins, err := repos.Users.LockAdmins(ctx)
		if err != nil {
			return err
		}

		user, err := repos.Users.GetForUpdate(ctx, userID)
		if errors.Is(err, domain.ErrNotFound) {
			_, err = repos.Users.Create(ctx, domain.User{UserID: userID, Role: role})
			return err
		}
		if err != nil {
			return err
		}

		if user.Role == domain.RoleAdmin && role != domain.RoleAdmin && admins <= 1 {
			return domain.ErrLastAdmin
		}
		return repos.Users.SetRole(ctx, userID, role)
	})

	switch {
	case errors.Is(err, domain.ErrLastAdmin):
		s.logger.Info("Refused to demote last admin", zap.Int64("user_id", userID))
		return domain.RoleAdmin, err
	case err != nil:
		s.logger.Error("Failed to set role",
			zap.Int64("user_id", userID),
			zap.String("role", string(role)),
			zap.Error(err),
		)
		return domain.RoleGuest, fmt.Errorf("set role: %w", err)
	}

	s.logger.Info("Role updated", zap.Int64("user_id", userID), zap.String("role", string(role)))
	return role, nil
}

// ChangeRole is the authorization-checked role mutation. The actor needs
// ManageRoles and may not target themselves.
func (s *RoleService) ChangeRole(ctx context.Context, actorID, targetID int64, role domain.Role) error {
	if !s.HasCapability(ctx, actorID, domain.CapManageRoles) {
		s.logger.Info("Role change denied",
			zap.Int64("actor_id", actorID),
			zap.Int64("target_id", targetID),
		)
		return domain.ErrAccessDenied
	}
	if actorID == targetID {
		return domain.ErrSelfRoleChange
	}

	_, err := s.SetRole(ctx, targetID, role)
	return err
}

// DeleteUser removes an account. The last admin cannot be deleted.
func (s *RoleService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if !s.HasCapability(ctx, actorID, domain.CapManageUsers) {
		return domain.ErrAccessDenied
	}
	if actorID == targetID {
		return domain.ErrSelfRoleChange
	}

	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		admins, err := repos.Users.LockAdmins(ctx)
		if err != nil {
			return err
		}
		user, err := repos.Users.GetForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		if user.Role == domain.RoleAdmin && admins <= 1 {
			return domain.ErrLastAdmin
		}
		return repos.Users.Delete(ctx, targetID)
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", targetID, err)
	}

	s.logger.Info("User deleted", zap.Int64("actor_id", actorID), zap.Int64("target_id", targetID))
	return nil
}

// User returns one account
func (s *RoleService) User(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

// Users lists every account
func (s *RoleService) Users(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// UpdateUserField edits a profile field. Phone values are normalized.
func (s *RoleService) UpdateUserField(ctx context.Context, actorID, targetID int64, field domain.UserField, value string) error {
	if !s.HasCapability(ctx, actorID, domain.CapManageUsers) {
		return domain.ErrAccessDenied
	}
	if field == domain.UserFieldPhone {
		phone, err := domain.NormalizePhone(value)
		if err != nil {
			return err
		}
		value = phone
	}
	return s.users.UpdateField(ctx, targetID, field, value)
}

// BootstrapAdmins grants Admin to the configured ids. This is the explicit
// admin path that does not go through ChangeRole.
func (s *RoleService) BootstrapAdmins(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := s.SetRole(ctx, id, domain.RoleAdmin); err != nil {
			return fmt.Errorf("bootstrap admin %d: %w", id, err)
		}
	}
	if len(ids) > 0 {
		s.logger.Info("Bootstrap admins ensured", zap.Int("count", len(ids)))
	}
	return nil
}
