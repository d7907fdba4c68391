package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	user, err := c.users.GetUser(ctx, token, id)
	if err != nil {
		return fmt.Errorf("failed to get user %d: %w", id, err)
	}

	c.io.Printf("ID:       %d\n", id)
	c.printUser(user)
	return nil
}
