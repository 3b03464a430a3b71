// Package profile walks a human through saving login state into a named
// browser profile and reopening it.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"browser-automation/internal/application/port/input"
	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
)

var _ input.ProfileDemo = (*Demo)(nil)

var ErrEmptyName = errors.New("profile name is required")

type Demo struct {
	api    output.SessionAPIPort
	user   output.UserInteractionPort
	logger output.LoggerPort
}

func New(api output.SessionAPIPort, user output.UserInteractionPort, logger output.LoggerPort) *Demo {
	return &Demo{
		api:    api,
		user:   user,
		logger: logger,
	}
}

// Run creates the profile if needed, opens a browser that saves changes back
// to it, then a second one that only reads it.
func (d *Demo) Run(ctx context.Context, profileName string) error {
	name := strings.TrimSpace(profileName)
	if name == "" {
		return ErrEmptyName
	}

	if err := d.EnsureProfile(ctx, name); err != nil {
		return err
	}

	err := d.session(ctx,
		entity.CreateBrowserRequest{Profile: &entity.ProfileRef{Name: name, SaveChanges: true}},
		"Use the live view url to navigate and create some login state. Press enter when you're done")
	if err != nil {
		return err
	}

	d.user.ShowNotice(ctx, "Creating a new browser from the saved profile")

	return d.session(ctx,
		entity.CreateBrowserRequest{Profile: &entity.ProfileRef{Name: name}},
		"Use the live view url to navigate and check the login state was persisted. Press enter when you're done")
}

// EnsureProfile treats an existing profile as success.
func (d *Demo) EnsureProfile(ctx context.Context, name string) error {
	p, err := d.api.CreateProfile(ctx, name)
	switch {
	case errors.Is(err, entity.ErrAlreadyExists):
		d.logger.Info("Profile already exists", "profile", name)
		return nil
	case err != nil:
		return fmt.Errorf("create profile %q: %w", name, err)
	}

	d.logger.Info("Profile created", "profile", p.Name, "id", p.ID)
	return nil
}

func (d *Demo) session(ctx context.Context, req entity.CreateBrowserRequest, instructions string) (err error) {
	sess, err := d.api.CreateBrowser(ctx, req)
	if err != nil {
		return fmt.Errorf("create browser: %w", err)
	}
	d.logger.Info("Browser created",
		"session_id", sess.SessionID,
		"profile", req.Profile.Name,
		"save_changes", req.Profile.SaveChanges)

	defer func() {
		if delErr := d.api.DeleteBrowser(context.WithoutCancel(ctx), sess.SessionID); delErr != nil {
			err = errors.Join(err, fmt.Errorf("delete browser %s: %w", sess.SessionID, delErr))
			return
		}
		d.logger.Info("Browser deleted", "session_id", sess.SessionID)
	}()

	d.user.ShowNotice(ctx, "Kernel browser live view url: "+sess.LiveViewURL)
	if err := d.user.WaitForUserAction(ctx, instructions); err != nil {
		return fmt.Errorf("wait for confirmation: %w", err)
	}
	return nil
}
