package service

import (
	"context"
	"fmt"

	"nexticket/internal/apperr"
	"nexticket/internal/logger"
	"nexticket/internal/models"
)

// UserService owns identity upserts and role resolution. Every privileged
// operation in the other services goes through RequireRole here.
type UserService struct {
	users UserStore
	cache RoleCache
	index TicketIndex
}

func NewUserService(users UserStore, cache RoleCache, index TicketIndex) *UserService {
	return &UserService{users: users, cache: cache, index: index}
}

// Save upserts the profile after an external sign-in. Role and fraud flag
// are untouched for existing users; new users start as plain users.
func (s *UserService) Save(ctx context.Context, req *models.SaveUserRequest) (*models.User, error) {
	user := &models.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Role:        models.RoleUser,
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}

// Resolve maps an email to its role and fraud flag. An empty email or an
// unknown identity yields (nil, nil): an explicit no-role state, not an
// error, so anonymous browsing keeps working. Backend failure is reported
// as RoleLookupFailed and nothing is cached.
func (s *UserService) Resolve(ctx context.Context, email string) (*models.RoleInfo, error) {
	if email == "" {
		return nil, nil
	}

	if s.cache != nil {
		info, err := s.cache.GetRole(ctx, email)
		if err != nil {
			logger.WithContext(ctx).Warn("Role cache lookup failed", "error", err, "email", email)
		} else if info != nil {
			return info, nil
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRoleLookupFailed, "could not resolve role", err)
	}
	if user == nil {
		return nil, nil
	}

	info := &models.RoleInfo{Role: user.Role, IsFraud: user.IsFraud}

	if s.cache != nil {
		if err := s.cache.SetRole(ctx, email, info); err != nil {
			logger.WithContext(ctx).Warn("Role cache write failed", "error", err, "email", email)
		}
	}

	return info, nil
}

// RequireRole refuses the operation unless the actor resolves to the given
// role. AuthRequired covers both missing identity and identity without a
// backend record; RoleMismatch covers a present identity of the wrong role.
func (s *UserService) RequireRole(ctx context.Context, email string, want models.Role) (*models.RoleInfo, error) {
	if email == "" {
		return nil, apperr.New(apperr.KindAuthRequired, "sign in required")
	}

	info, err := s.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, apperr.New(apperr.KindAuthRequired, "unknown identity")
	}
	if info.Role != want {
		return nil, apperr.Newf(apperr.KindRoleMismatch, "%s role required", want)
	}

	return info, nil
}

// Get returns a profile; identities may read themselves, admins anyone.
func (s *UserService) Get(ctx context.Context, actor, email string) (*models.User, error) {
	if actor != email {
		if _, err := s.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
			return nil, err
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "no user with email %s", email)
	}

	return user, nil
}

func (s *UserService) List(ctx context.Context, actor string) ([]models.User, error) {
	if _, err := s.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// UpdateRole is the only path that mutates a role.
func (s *UserService) UpdateRole(ctx context.Context, actor, email string, role string) error {
	if _, err := s.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
		return err
	}

	parsed, err := models.ParseRole(role)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidStateTransition, "invalid role", err)
	}

	updated, err := s.users.UpdateRole(ctx, email, parsed)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if !updated {
		return apperr.Newf(apperr.KindNotFound, "no user with email %s", email)
	}

	s.invalidateRole(ctx, email)
	return nil
}

// MarkFraud sets the one-way suppression flag on a vendor.
func (s *UserService) MarkFraud(ctx context.Context, actor, email string) error {
	if _, err := s.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
		return err
	}

	flagged, err := s.users.MarkFraud(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to flag vendor: %w", err)
	}
	if !flagged {
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to flag vendor: %w", err)
		}
		if user == nil {
			return apperr.Newf(apperr.KindNotFound, "no user with email %s", email)
		}
		if user.Role != models.RoleVendor {
			return apperr.New(apperr.KindInvalidStateTransition, "only vendors can be flagged")
		}
		// Already flagged: the flag is one-way, so this is a no-op.
		return nil
	}

	s.invalidateRole(ctx, email)

	// Suppress the vendor's tickets on the browse and landing surfaces.
	if s.index != nil {
		if err := s.index.MarkVendorFraud(ctx, email); err != nil {
			logger.WithContext(ctx).Error("Failed to flag vendor in search index",
				"error", err, "email", email)
		}
	}
	if s.cache != nil {
		if err := s.cache.InvalidateAdvertised(ctx); err != nil {
			logger.WithContext(ctx).Warn("Advertised cache invalidation failed", "error", err)
		}
	}

	return nil
}

func (s *UserService) invalidateRole(ctx context.Context, email string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRole(ctx, email); err != nil {
		logger.WithContext(ctx).Warn("Role cache invalidation failed", "error", err, "email", email)
	}
}
