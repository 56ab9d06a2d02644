package main

import (
	"fmt"
	"os"

	"github.com/mpratt21/recipebox/cmd/cli/auth"
	"github.com/mpratt21/recipebox/cmd/cli/recipes"
	"github.com/mpratt21/recipebox/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	recipes.InitRecipes(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
