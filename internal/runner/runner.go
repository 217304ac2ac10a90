// Package runner drives one update: resolve the public address, rotate the
// saved state, and move the security group rule if the address changed.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/K0NGR3SS/amazonip/internal/firewall"
	"github.com/K0NGR3SS/amazonip/internal/models"
	"github.com/K0NGR3SS/amazonip/internal/state"
	"github.com/pterm/pterm"
)

var (
	ErrResolve   = errors.New("failed to resolve public address")
	ErrState     = errors.New("failed to update local state")
	ErrAuthorize = errors.New("failed to authorize new address")
)

type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

type Firewall interface {
	Revoke(ctx context.Context, addr string) error
	Authorize(ctx context.Context, addr string) error
}

type Notifier interface {
	SendOutcome(ctx context.Context, o models.Outcome) error
}

type Runner struct {
	Resolver Resolver
	Store    state.Store
	Firewall Firewall
	Notifier Notifier
	Logger   *pterm.Logger

	Region        string
	SecurityGroup string
	Force         bool
}

// ShouldUpdate reports whether the firewall needs touching. Only a present
// previous address that is identical to current, without force, skips it.
func ShouldUpdate(previous string, hasPrevious bool, current string, force bool) bool {
	if force || !hasPrevious {
		return true
	}
	return previous != current
}

// Run executes the pipeline once. The returned Outcome is filled in as far
// as the run got, even when an error is returned.
func (r *Runner) Run(ctx context.Context) (models.Outcome, error) {
	log := r.logger()
	out := models.Outcome{
		Region:        r.Region,
		SecurityGroup: r.SecurityGroup,
		Forced:        r.Force,
	}

	current, err := r.Resolver.Resolve(ctx)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrResolve, err)
	}
	out.Current = current
	log.Info("resolved public address", log.Args("address", current))

	previous, ok, err := r.Store.Load(ctx)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrState, err)
	}
	out.Previous, out.HadPrevious = previous, ok
	if ok {
		log.Debug("loaded previous address", log.Args("address", previous))
	} else {
		log.Debug("no previous address recorded")
	}

	if err := r.Store.Save(ctx, current); err != nil {
		return out, fmt.Errorf("%w: %w", ErrState, err)
	}

	if !ShouldUpdate(previous, ok, current, r.Force) {
		out.Status = models.StatusUnchanged
		log.Info("no update required", log.Args("address", current))
		return out, nil
	}

	if ok {
		if err := r.Firewall.Revoke(ctx, previous); err != nil {
			out.RevokeError = err.Error()
			if errors.Is(err, firewall.ErrRuleNotFound) {
				log.Warn("old rule was not present", log.Args("address", previous))
			} else {
				log.Error("error removing old address from security group", log.Args("address", previous, "error", err))
			}
		} else {
			out.Revoked = true
			log.Info("revoked old address", log.Args("cidr", models.HostCIDR(previous)))
		}
	} else {
		log.Info("no previous address, skipping revoke")
	}

	err = r.Firewall.Authorize(ctx, current)
	switch {
	case err == nil:
		log.Info("authorized new address", log.Args("cidr", models.HostCIDR(current)))
	case errors.Is(err, firewall.ErrRuleExists):
		log.Info("new address already authorized", log.Args("cidr", models.HostCIDR(current)))
	default:
		out.Status = models.StatusFailed
		log.Error("error adding new address to security group", log.Args("address", current, "error", err))
		r.notify(ctx, out)
		return out, fmt.Errorf("%w: %w", ErrAuthorize, err)
	}

	out.Authorized = true
	out.Status = models.StatusUpdated
	r.notify(ctx, out)
	return out, nil
}

func (r *Runner) notify(ctx context.Context, out models.Outcome) {
	if r.Notifier == nil {
		return
	}
	if err := r.Notifier.SendOutcome(ctx, out); err != nil {
		log := r.logger()
		log.Warn("failed to send notification", log.Args("error", err))
	}
}

func (r *Runner) logger() *pterm.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return &pterm.DefaultLogger
}
