package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/atolz-bro/usermanagementservice/pkg/api"
)

// runCreate создает пользователя. Незаданные флаги запрашиваются
// интерактивно, пароль всегда читается без эха.
func (c *Cli) runCreate(ctx context.Context, args []string) error {
	var req api.CreateUserRequest

	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&req.Username, "username", "", "username")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Role, "role", "", "role (ADMIN or USER)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	prompts := []struct {
		dst    *string
		prompt string
	}{
		{&req.Username, "Username: "},
		{&req.Email, "Email: "},
		{&req.Role, "Role: "},
	}
	for _, p := range prompts {
		if *p.dst != "" {
			continue
		}
		if *p.dst, err = c.io.ReadInput(p.prompt); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}

	if req.Password, err = c.io.ReadPassword("Password: "); err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	user, err := c.users.CreateUser(ctx, token, req)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	c.io.Println("✓ User created")
	c.printUser(user)
	return nil
}
