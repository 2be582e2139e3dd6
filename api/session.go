package api

// SetAccount sets the session account used when a call supplies none.
// Game-lifecycle responses call this on success; callers may too.
func (c *Client) SetAccount(account string) {
	c.mu.Lock()
	c.account = account
	c.mu.Unlock()
}

// Account returns the current session account, empty if unset.
func (c *Client) Account() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account
}

// resolveAccount picks the explicit account when given, otherwise the
// session account. Operations that need an account call this before any I/O.
func (c *Client) resolveAccount(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	c.mu.RLock()
	account := c.account
	c.mu.RUnlock()

	if account == "" {
		return "", ErrMissingAccount
	}
	return account, nil
}
