package envs

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// WriteEnvFile merges vars into the dotenv file at path. Lines for other
// variables, comments and blanks are preserved; managed keys are updated
// in place and stale duplicates dropped. The file ends up mode 0600
// because the variables can point at private infrastructure.
func WriteEnvFile(path string, vars map[string]string) error {
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	var out []string
	seen := map[string]bool{}
	for _, line := range splitEnvLines(string(raw)) {
		key, ok := envLineKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		value, managed := vars[key]
		if !managed {
			out = append(out, line)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key+"="+value)
	}

	missing := make([]string, 0, len(vars))
	for key := range vars {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	for _, key := range missing {
		out = append(out, key+"="+vars[key])
	}

	data := strings.Join(out, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	// WriteFile keeps the mode of a pre-existing file
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set env file permissions: %w", err)
	}
	return nil
}

func splitEnvLines(raw string) []string {
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

// envLineKey returns the variable name a dotenv line assigns. Comments,
// blank lines and anything without "=" carry no key.
func envLineKey(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	parts := strings.SplitN(trimmed, "=", 2)
	if len(parts) != 2 {
		return "", false
	}
	return strings.TrimSpace(parts[0]), true
}
