package config

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:5555"
const defaultCookie = "recipebox_session"
const sessionFileName = ".recipebox_session"

// APIURL returns the base URL for the Recipebox API.
// It can be overridden with the RECIPEBOX_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("RECIPEBOX_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// CookieName returns the session cookie name the API uses. Override with
// RECIPEBOX_COOKIE when the server runs with a non-default SESSION_COOKIE.
func CookieName() string {
	if v := os.Getenv("RECIPEBOX_COOKIE"); v != "" {
		return v
	}
	return defaultCookie
}

// SaveSession stores the session token locally for subsequent CLI commands.
func SaveSession(token string) error {
	return os.WriteFile(sessionPath(), []byte(token), 0600)
}

// LoadSession reads the locally stored session token.
func LoadSession() (string, error) {
	data, err := os.ReadFile(sessionPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearSession removes the locally stored session token. Missing file is not an error.
func ClearSession() error {
	err := os.Remove(sessionPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func sessionPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, sessionFileName)
}
