package recipes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mpratt21/recipebox/cmd/cli/config"
	"github.com/mpratt21/recipebox/cmd/cli/output"
	"github.com/spf13/cobra"
)

// InitRecipes registers the recipes command group on the root command.
func InitRecipes(rootCmd *cobra.Command) {
	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage your recipes",
	}

	recipesCmd.AddCommand(
		listRecipesCmd(),
		addRecipeCmd(),
	)

	rootCmd.AddCommand(recipesCmd)
}

type recipe struct {
	ID                int    `json:"id"`
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete *int   `json:"minutes_to_complete"`
	User              struct {
		Username string `json:"username"`
	} `json:"user"`
}

// ==========================
// LIST
// ==========================
func listRecipesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []recipe
			if err := callAPI("GET", "/recipes", nil, &list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, r := range list {
				minutes := "-"
				if r.MinutesToComplete != nil {
					minutes = fmt.Sprintf("%d", *r.MinutesToComplete)
				}
				rows = append(rows, []interface{}{r.ID, r.Title, minutes, r.User.Username})
			}

			output.RenderTable([]string{"ID", "Title", "Minutes", "Owner"}, rows)
			return nil
		},
	}
}

// ==========================
// ADD
// ==========================
func addRecipeCmd() *cobra.Command {
	var title, instructions string
	var minutes int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"title":        title,
				"instructions": instructions,
			}
			if cmd.Flags().Changed("minutes") {
				payload["minutes_to_complete"] = minutes
			}

			var created recipe
			if err := callAPI("POST", "/recipes", payload, &created); err != nil {
				return err
			}

			fmt.Printf("Created recipe %d: %s\n", created.ID, created.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Recipe title")
	cmd.Flags().StringVar(&instructions, "instructions", "", "Recipe instructions")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Minutes to complete")

	return cmd
}

// callAPI sends an authenticated request with the stored session cookie.
func callAPI(method, path string, payload any, out any) error {
	token, err := config.LoadSession()
	if err != nil {
		return fmt.Errorf("please login first")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: config.CookieName(), Value: token})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return err
		}
	}

	return nil
}
