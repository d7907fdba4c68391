// Package cli реализует команды административного клиента.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atolz-bro/usermanagementservice/internal/client/iocli"
	"github.com/atolz-bro/usermanagementservice/internal/client/storage"
	"github.com/atolz-bro/usermanagementservice/pkg/api"
)

// ErrUnknownCommand is returned by Run for a command it does not know.
var ErrUnknownCommand = errors.New("unknown command")

//go:generate moq -out userapi_mock.go . UserAPI SessionService

// UserAPI is the server API used by the user commands.
type UserAPI interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
	CreateUser(ctx context.Context, token string, req api.CreateUserRequest) (*api.User, error)
	GetUser(ctx context.Context, token string, id int64) (*api.User, error)
	UpdateUser(ctx context.Context, token string, id int64, req api.UpdateUserRequest) (*api.User, error)
	DeleteUser(ctx context.Context, token string, id int64) (string, error)
}

// SessionService keeps the login session between invocations.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*storage.AuthData, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*storage.AuthData, error)
	Stored(ctx context.Context) (*storage.AuthData, error)
}

type Cli struct {
	io      iocli.IO
	users   UserAPI
	session SessionService
}

func New(io iocli.IO, users UserAPI, session SessionService) *Cli {
	return &Cli{
		io:      io,
		users:   users,
		session: session,
	}
}

// Run выполняет команду с аргументами args (без имени команды)
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "get":
		return c.runGet(ctx, args)
	case "create":
		return c.runCreate(ctx, args)
	case "update":
		return c.runUpdate(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// token возвращает bearer токен текущей сессии
func (c *Cli) token(ctx context.Context) (string, error) {
	session, err := c.session.Session(ctx)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func PrintUsage(w io.Writer) {
	fmt.Fprint(w, `User Management Client

Usage:
  usermgmt [OPTIONS] COMMAND [ARGS]

Options:
  -version             Show version information
  -server URL          Server URL (default: http://localhost:8080)
  -db PATH             Path to local session database (default: usermgmt-client.db)

Commands:
  login                Login and save the token locally
  logout               Delete the local session
  status               Show session and server status
  get <id>             Show a user
  create [flags]       Create a user (-username, -email, -role; password is prompted)
  update <id> [flags]  Change -username, -email or -role of a user
  delete <id>          Delete a user

Examples:
  usermgmt login
  usermgmt create -username carol -email carol@example.com -role USER
  usermgmt update 3 -role ADMIN
  usermgmt -server https://users.example.com get 1
`)
}
