package cli

import (
	"context"
	"errors"
	"time"

	"github.com/atolz-bro/usermanagementservice/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")

	if health, err := c.users.Health(ctx); err != nil {
		c.io.Printf("Server: unavailable (%v)\n", err)
	} else {
		c.io.Printf("Server: %s (version %s)\n", health.Status, health.Version)
	}

	session, err := c.session.Stored(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			c.io.Println("Session: not authenticated")
			c.io.Println("Run 'login' to authenticate.")
			return nil
		}
		return err
	}

	c.io.Printf("Session: %s\n", session.Username)
	if session.ExpiresAt == 0 {
		return nil
	}

	expiresAt := time.Unix(session.ExpiresAt, 0)
	c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
	if remaining := time.Until(expiresAt); remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Token has expired. Please login again.")
	}
	return nil
}
