package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// tokenFile is the on-disk shape of the stored credential file.
type tokenFile struct {
	GitHubToken string `json:"github_token"`
}

// ResolveToken looks up the GitHub token from multiple sources in order of
// priority:
//  1. GITHUB_TOKEN or GISTMAN_GITHUB_TOKEN environment variable
//  2. <configDir>/config.json
//  3. ./config.json
//
// An empty result is not an error here; commands that need authentication
// surface the failure with setup instructions.
func ResolveToken(configDir string) (string, error) {
	if token := getEnvString("GITHUB_TOKEN", ""); token != "" {
		return token, nil
	}
	if token := getEnvString("GISTMAN_GITHUB_TOKEN", ""); token != "" {
		return token, nil
	}

	token, err := readTokenFile(filepath.Join(configDir, "config.json"))
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}

	return readTokenFile("config.json")
}

// readTokenFile reads the token from a config file. A missing file returns
// an empty token; a present but malformed file is an error.
func readTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", fmt.Errorf("invalid JSON in config file %s: %w", path, err)
	}

	if tf.GitHubToken == "" {
		return "", fmt.Errorf("github_token key not found in config file %s", path)
	}

	return tf.GitHubToken, nil
}

// TokenPath returns the path of the stored credential file.
func TokenPath(configDir string) string {
	return filepath.Join(configDir, "config.json")
}

// HasStoredToken reports whether a credential file already exists.
func HasStoredToken(configDir string) bool {
	_, err := os.Stat(TokenPath(configDir))
	return err == nil
}

// SaveToken writes the token to the credential file with restrictive
// permissions (0700 directory, 0600 file).
func SaveToken(configDir, token string) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.Chmod(configDir, 0700); err != nil {
		return fmt.Errorf("failed to set config directory permissions: %w", err)
	}

	if err := checkDirectoryWritable(configDir); err != nil {
		return fmt.Errorf("config directory: %w", err)
	}

	data, err := json.MarshalIndent(tokenFile{GitHubToken: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token file: %w", err)
	}

	path := TokenPath(configDir)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
