package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/lunamood/lunamood/internal/client/models"
	"github.com/lunamood/lunamood/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	GuestID  string `json:"guestId,omitempty"`
}

type tokenLoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register prompts for account details and creates a new account. Moods
// logged anonymously on this device are claimed by the fresh account, after
// which the local guest session is cleared.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := registerRequest{Username: userName, Password: string(password), Name: name}
	if guest, err := a.guests.Load(ctx); err == nil && guest.MoodCount > 0 {
		req.GuestID = guest.ID
	}

	if err := a.api.FetchJSON(ctx, http.MethodPost, "/api/register", req, nil); err != nil {
		a.logger.Warn(ctx, "registration failed", "error", err)
		return err
	}
	if err := a.guests.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "guest session cleanup failed", "error", err)
	}

	if a.detector.IsNativeApp() {
		if err := a.tokenLogin(ctx, userName, string(password)); err != nil {
			return err
		}
	}

	a.manager.Refresh(ctx)
	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials and authenticates. Inside the native
// wrapper the token endpoint is used and the credential is persisted
// locally; in browser mode the session cookie set by the server carries
// identity for subsequent calls.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if a.detector.IsNativeApp() {
		err = a.tokenLogin(ctx, userName, string(password))
	} else {
		err = a.api.FetchJSON(ctx, http.MethodPost, "/api/login",
			credentialsRequest{Username: userName, Password: string(password)}, nil)
	}
	if err != nil {
		a.logger.Warn(ctx, "login failed", "error", err)
		return err
	}

	a.manager.Refresh(ctx)
	fmt.Println("Success!")
	return nil
}

func (a *App) tokenLogin(ctx context.Context, userName, password string) error {
	var resp tokenLoginResponse
	err := a.api.FetchJSON(ctx, http.MethodPost, "/api/ios-login",
		credentialsRequest{Username: userName, Password: password}, &resp)
	if err != nil {
		return err
	}
	return a.tokens.Set(ctx, resp.Token)
}

// Logout tears down the local identity. The prompt reflects the anonymous
// state even when the server call fails.
func (a *App) Logout(ctx context.Context) error {
	a.manager.Logout(ctx)
	fmt.Println("Logged out")
	return nil
}

// Status prints the current identity view.
func (a *App) Status(ctx context.Context) error {
	state := a.manager.State()
	if state.IsAuthenticated && state.User != nil {
		fmt.Printf("Signed in as %s (%s, %s tier)\n",
			state.User.Username, state.User.Name, state.User.SubscriptionTier)
		return nil
	}

	guest, err := a.guests.Load(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Anonymous (%d mood(s) logged on this device)\n", guest.MoodCount)
	if guest.NeedsAccount() {
		fmt.Println("Create an account to keep your mood history.")
	}
	return nil
}
