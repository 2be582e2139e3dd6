package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// StartLevel starts a new instance of a level. On success the session
// account is replaced with the one issued for the instance, so subsequent
// orders and streams need no explicit account.
func (c *Client) StartLevel(ctx context.Context, level string) (*Level, error) {
	var resp Level
	if err := c.do(ctx, http.MethodPost, c.gameURL+"/levels/"+level, nil, &resp); err != nil {
		return nil, fmt.Errorf("start level %s: %w", level, err)
	}
	c.adoptAccount(&resp)
	return &resp, nil
}

// RestartLevel restarts a level instance and adopts its account.
func (c *Client) RestartLevel(ctx context.Context, instance int) (*Level, error) {
	return c.instanceAction(ctx, instance, "restart", true)
}

// StopLevel stops a level instance. The session account is left untouched.
func (c *Client) StopLevel(ctx context.Context, instance int) (*Level, error) {
	return c.instanceAction(ctx, instance, "stop", false)
}

// ResumeLevel resumes a stopped level instance and adopts its account.
func (c *Client) ResumeLevel(ctx context.Context, instance int) (*Level, error) {
	return c.instanceAction(ctx, instance, "resume", true)
}

// LevelStatus reports progress for a level instance.
func (c *Client) LevelStatus(ctx context.Context, instance int) (*LevelState, error) {
	var resp LevelState
	url := c.gameURL + "/instances/" + strconv.Itoa(instance)
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("level status %d: %w", instance, err)
	}
	return &resp, nil
}

func (c *Client) instanceAction(ctx context.Context, instance int, action string, adopt bool) (*Level, error) {
	var resp Level
	url := c.gameURL + "/instances/" + strconv.Itoa(instance) + "/" + action
	if err := c.do(ctx, http.MethodPost, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s level %d: %w", action, instance, err)
	}
	if adopt {
		c.adoptAccount(&resp)
	}
	return &resp, nil
}

// adoptAccount binds the session to the account a successful lifecycle
// response carries.
func (c *Client) adoptAccount(lvl *Level) {
	if !lvl.OK || lvl.Account == "" {
		return
	}
	c.SetAccount(lvl.Account)
	c.logger.Debug("session account updated",
		"account", lvl.Account,
		"instance", lvl.InstanceID,
	)
}
