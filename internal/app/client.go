package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/kshimada/shopauth/internal/client"
	"github.com/kshimada/shopauth/internal/config"
	"github.com/kshimada/shopauth/internal/model"
)

// runClientCommand はクライアントコマンドを実行する。
// セッションを永続化ストアから復元した上で各コマンドに委譲する。
func runClientCommand(w io.Writer, cmd Command, args []string) error {
	cfg := config.LoadClient()

	manager := client.NewManager(client.NewStore(cfg.SessionDir))
	if err := manager.Hydrate(); err != nil {
		return fmt.Errorf("failed to hydrate session: %w", err)
	}

	api := client.NewClient(cfg, manager, func(redirectPath string) {
		fmt.Fprintf(w, "Session expired. Please log in again (%s).\n", redirectPath)
	})

	ctx := context.Background()

	switch cmd {
	case CommandRegister:
		return runRegister(ctx, w, api, args)
	case CommandLogin:
		return runLogin(ctx, w, api, args)
	case CommandLogout:
		return runLogout(w, api)
	case CommandWhoami:
		return runWhoami(ctx, w, api, manager)
	default:
		return fmt.Errorf("unknown client command: %s", cmd)
	}
}

// runRegister は新規ユーザーを登録し、セッションを保存する。
func runRegister(ctx context.Context, w io.Writer, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(w)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := api.Register(ctx, *name, *email, *password)
	if err != nil {
		return clientError("registration failed", err)
	}

	fmt.Fprintf(w, "Registered as %s <%s>\n", user.Name, user.Email)
	return nil
}

// runLogin はログインし、セッションを保存する。
func runLogin(ctx context.Context, w io.Writer, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(w)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := api.Login(ctx, *email, *password)
	if err != nil {
		return clientError("login failed", err)
	}

	fmt.Fprintf(w, "Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

// runLogout はローカルセッションを破棄する。
func runLogout(w io.Writer, api *client.Client) error {
	if err := api.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	fmt.Fprintln(w, "Logged out.")
	return nil
}

// runWhoami は現在のセッションのユーザーをサーバーに問い合わせて表示する。
// 未ログインの場合はログイン画面への誘導パスを表示する。
func runWhoami(ctx context.Context, w io.Writer, api *client.Client, manager *client.Manager) error {
	if _, err := client.RequireAuth(manager, "/whoami"); err != nil {
		var loginErr *client.LoginRequiredError
		if errors.As(err, &loginErr) {
			fmt.Fprintf(w, "Not logged in. Go to %s\n", loginErr.RedirectTo)
			return nil
		}
		return err
	}

	user, err := api.Me(ctx)
	if err != nil {
		return clientError("failed to fetch profile", err)
	}

	printProfile(w, user)
	return nil
}

// printProfile はユーザープロフィールを表示する。
func printProfile(w io.Writer, user *model.PublicUser) {
	fmt.Fprintf(w, "ID:    %s\n", user.ID)
	fmt.Fprintf(w, "Name:  %s\n", user.Name)
	fmt.Fprintf(w, "Email: %s\n", user.Email)
	fmt.Fprintf(w, "Role:  %s\n", user.Role)
}

// clientError はAPIエラーと接続エラーを利用者向けのエラーに変換する。
func clientError(prefix string, err error) error {
	if errors.Is(err, client.ErrUnreachable) {
		return fmt.Errorf("%s: could not reach the server", prefix)
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", prefix, apiErr.Error())
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
