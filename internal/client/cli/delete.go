package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	msg, err := c.users.DeleteUser(ctx, token, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	c.io.Printf("✓ %s\n", msg)
	return nil
}
