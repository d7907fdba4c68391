package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/atolz-bro/usermanagementservice/pkg/api"
)

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	var req api.UpdateUserRequest
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&req.Username, "username", "", "new username")
	fs.StringVar(&req.Email, "email", "", "new email")
	fs.StringVar(&req.Role, "role", "", "new role")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if req == (api.UpdateUserRequest{}) {
		return fmt.Errorf("nothing to update: set -username, -email or -role")
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	user, err := c.users.UpdateUser(ctx, token, id, req)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}

	c.io.Println("✓ User updated")
	c.printUser(user)
	return nil
}
