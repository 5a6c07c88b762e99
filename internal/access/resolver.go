// Package access classifies a signed-in identity into platform-admin or
// tenant-scoped visibility.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/model"
)

// DefaultLookupTimeout bounds a lookup when no timeout is configured.
const DefaultLookupTimeout = 3 * time.Second

// TenancyFinder returns the most recent binding of a user, or nil when the
// user has none.
type TenancyFinder interface {
	FindTenancyForUser(ctx context.Context, userID string) (*model.TenancyBinding, error)
}

// OwnedAcademyFinder returns the academy owned by a user, or "" when the user
// owns none.
type OwnedAcademyFinder interface {
	FindAcademyOwnedBy(ctx context.Context, userID string) (string, error)
}

// Cache memoizes resolved access per identity.
type Cache interface {
	Get(ctx context.Context, id model.Identity) (model.EffectiveAccess, bool)
	Set(ctx context.Context, id model.Identity, access model.EffectiveAccess)
	Invalidate(ctx context.Context, userID string) error
}

// ResolverConfig tunes a Resolver.
type ResolverConfig struct {
	// AdminAllowList holds user IDs or e-mails that always resolve as admins.
	AdminAllowList []string
	LookupTimeout  time.Duration
	// Cache is optional.
	Cache Cache
}

// Resolver computes EffectiveAccess. It never fails: unavailable lookups
// degrade to the next step and finally to the fail-closed default.
type Resolver struct {
	tenancies TenancyFinder
	academies OwnedAcademyFinder
	admins    map[string]struct{}
	timeout   time.Duration
	cache     Cache
	log       zerolog.Logger
}

// NewResolver creates a Resolver over the two lookups.
func NewResolver(tenancies TenancyFinder, academies OwnedAcademyFinder, cfg ResolverConfig, log zerolog.Logger) *Resolver {
	admins := make(map[string]struct{}, len(cfg.AdminAllowList))
	for _, a := range cfg.AdminAllowList {
		if a = normalize(a); a != "" {
			admins[a] = struct{}{}
		}
	}

	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	return &Resolver{
		tenancies: tenancies,
		academies: academies,
		admins:    admins,
		timeout:   timeout,
		cache:     cfg.Cache,
		log:       log.With().Str("component", "access_resolver").Logger(),
	}
}

// Resolve returns the effective access of id. First match wins:
//  1. allow-listed identity or "admin" role hint
//  2. tenancy binding
//  3. owned academy
//  4. no visibility
func (r *Resolver) Resolve(ctx context.Context, id model.Identity) model.EffectiveAccess {
	if r.IsPlatformAdmin(id) {
		return model.EffectiveAccess{UserID: id.ID, IsAdmin: true}
	}

	denied := model.EffectiveAccess{UserID: id.ID}
	if id.ID == "" {
		return denied
	}

	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, id); ok {
			return cached
		}
	}

	result, degraded := r.lookup(ctx, id.ID)
	// A degraded result may have skipped a higher-priority step.
	if r.cache != nil && !degraded && !result.FailClosed() {
		r.cache.Set(ctx, id, result)
	}
	return result
}

// IsPlatformAdmin reports whether id carries an explicit admin signal.
func (r *Resolver) IsPlatformAdmin(id model.Identity) bool {
	if strings.EqualFold(strings.TrimSpace(id.RawRole), model.RoleAdmin) {
		return true
	}
	if _, ok := r.admins[normalize(id.ID)]; ok && id.ID != "" {
		return true
	}
	if _, ok := r.admins[normalize(id.Email)]; ok && id.Email != "" {
		return true
	}
	return false
}

// Invalidate drops any memoized access of userID.
func (r *Resolver) Invalidate(ctx context.Context, userID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, userID); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate cached access")
	}
}

// lookup runs the tenancy steps in priority order. degraded reports that a
// step was unavailable and the result may not be authoritative.
func (r *Resolver) lookup(ctx context.Context, userID string) (result model.EffectiveAccess, degraded bool) {
	binding, err := bounded(ctx, r.timeout, func(ctx context.Context) (*model.TenancyBinding, error) {
		return r.tenancies.FindTenancyForUser(ctx, userID)
	})
	if err != nil {
		r.logUnavailable(err, userID, "tenancy")
		degraded = true
	} else if binding != nil && binding.AcademyID != "" {
		academyID := binding.AcademyID
		return model.EffectiveAccess{
			UserID:    userID,
			IsAdmin:   binding.Role == model.RoleAdmin,
			AcademyID: &academyID,
		}, false
	}

	academyID, err := bounded(ctx, r.timeout, func(ctx context.Context) (string, error) {
		return r.academies.FindAcademyOwnedBy(ctx, userID)
	})
	if err != nil {
		r.logUnavailable(err, userID, "owned_academy")
		degraded = true
	} else if academyID != "" {
		return model.EffectiveAccess{UserID: userID, AcademyID: &academyID}, degraded
	}

	return model.EffectiveAccess{UserID: userID}, degraded
}

// IsAcademyOwner reports whether the academy of eff is owned by its user,
// either through an academy_owner binding or as the academy's registered
// owner. Lookups are bounded like Resolve; an unavailable lookup counts as
// not owner.
func (r *Resolver) IsAcademyOwner(ctx context.Context, eff model.EffectiveAccess) bool {
	if eff.IsAdmin || !eff.HasAcademy() {
		return false
	}

	binding, err := bounded(ctx, r.timeout, func(ctx context.Context) (*model.TenancyBinding, error) {
		return r.tenancies.FindTenancyForUser(ctx, eff.UserID)
	})
	if err != nil {
		r.logUnavailable(err, eff.UserID, "tenancy")
	} else if binding != nil && binding.AcademyID == *eff.AcademyID {
		return binding.Role == model.RoleAcademyOwner
	}

	owned, err := bounded(ctx, r.timeout, func(ctx context.Context) (string, error) {
		return r.academies.FindAcademyOwnedBy(ctx, eff.UserID)
	})
	if err != nil {
		r.logUnavailable(err, eff.UserID, "owned_academy")
		return false
	}
	return owned == *eff.AcademyID
}

func (r *Resolver) logUnavailable(err error, userID, step string) {
	evt := r.log.Warn()
	if errors.Is(err, context.Canceled) {
		evt = r.log.Debug()
	}
	evt.Err(err).
		Str("user_id", userID).
		Str("step", step).
		Msg("access lookup unavailable, degrading")
}

// ErrLookupPanicked wraps a panic raised inside a lookup.
var ErrLookupPanicked = errors.New("access lookup panicked")

// bounded runs fn with a deadline and stops waiting once it passes, even if
// fn ignores its context.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				ch <- result{err: fmt.Errorf("%w: %v", ErrLookupPanicked, p)}
			}
		}()
		val, err := fn(ctx)
		ch <- result{val: val, err: err}
	}()

	select {
	case res := <-ch:
		return res.val, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
