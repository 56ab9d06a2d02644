package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mpratt21/recipebox/cmd/cli/config"
	"github.com/spf13/cobra"
)

// InitAuth registers signup, login, and logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd())
}

func signupCmd() *cobra.Command {
	var username, password, bio, imageURL string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a Recipebox account",
		Long:  "Create a new account and store the session locally for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("username is required")
			}

			payload := map[string]any{
				"username": username,
				"password": password,
			}
			if bio != "" {
				payload["bio"] = bio
			}
			if imageURL != "" {
				payload["image_url"] = imageURL
			}

			var user struct {
				Username string `json:"username"`
			}
			token, err := postForSession("/signup", payload, &user)
			if err != nil {
				return fmt.Errorf("failed to sign up: %w", err)
			}

			if err := config.SaveSession(token); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			fmt.Printf("Signed up as %s. Session stored locally.\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to register")
	cmd.Flags().StringVar(&password, "password", "", "Password for the new account")
	cmd.Flags().StringVar(&bio, "bio", "", "Optional bio")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "Optional profile image URL")

	return cmd
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Recipebox API",
		Long:  "Authenticate and store the session locally for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("username is required")
			}

			var user struct {
				Username string `json:"username"`
			}
			token, err := postForSession("/login", map[string]any{
				"username": username,
				"password": password,
			}, &user)
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}

			if err := config.SaveSession(token); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			fmt.Printf("Logged in as %s. Session stored locally.\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadSession()
			if err != nil {
				fmt.Println("No session stored.")
				return nil
			}

			req, err := http.NewRequest("DELETE", config.APIURL()+"/logout", nil)
			if err != nil {
				return err
			}
			req.AddCookie(&http.Cookie{Name: config.CookieName(), Value: token})

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			resp.Body.Close()

			if err := config.ClearSession(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			fmt.Println("Logged out.")
			return nil
		},
	}
}

// postForSession posts payload to path and returns the session cookie value
// from the response, decoding the body into out when non-nil.
func postForSession(path string, payload any, out any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", config.APIURL()+path, bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var token string
	for _, c := range resp.Cookies() {
		if c.Name == config.CookieName() {
			token = c.Value
		}
	}
	if token == "" {
		return "", fmt.Errorf("no session cookie returned")
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return "", err
		}
	}

	return token, nil
}
