package ssh

import "fmt"

// Config holds SFTP store configuration
type Config struct {
	Host          string `json:"host"`
	Port          int    `json:"port"` // Default: 22
	User          string `json:"user"`
	Password      string `json:"password"`       // Optional when key_path is set
	KeyPath       string `json:"key_path"`       // Optional: path to private key
	KeyPassphrase string `json:"key_passphrase"` // Optional
	RemotePath    string `json:"remote_path"`    // Base directory on the remote server
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Port: 22, // Default
	}

	// Extract each field from options map
	if v, ok := options["host"].(string); ok {
		cfg.Host = v
	} else {
		return nil, fmt.Errorf("missing required option: host")
	}
	if v, ok := options["user"].(string); ok {
		cfg.User = v
	} else {
		return nil, fmt.Errorf("missing required option: user")
	}
	if v, ok := options["remote_path"].(string); ok {
		cfg.RemotePath = v
	} else {
		return nil, fmt.Errorf("missing required option: remote_path")
	}
	if v, ok := options["port"].(float64); ok {
		cfg.Port = int(v)
	}
	if v, ok := options["password"].(string); ok {
		cfg.Password = v
	}
	if v, ok := options["key_path"].(string); ok {
		cfg.KeyPath = v
	}
	if v, ok := options["key_passphrase"].(string); ok {
		cfg.KeyPassphrase = v
	}

	if cfg.Password == "" && cfg.KeyPath == "" {
		return nil, fmt.Errorf("either password or key_path is required")
	}

	return cfg, nil
}
