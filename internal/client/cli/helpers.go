package cli

import (
	"fmt"
	"strconv"

	"github.com/atolz-bro/usermanagementservice/pkg/api"
)

// parseID разбирает единственный позиционный аргумент <id>
func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("user id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", args[0])
	}
	return id, nil
}

func (c *Cli) printUser(u *api.User) {
	c.io.Printf("Username: %s\n", u.Username)
	c.io.Printf("Email:    %s\n", u.Email)
	c.io.Printf("Role:     %s\n", u.Role)
}
