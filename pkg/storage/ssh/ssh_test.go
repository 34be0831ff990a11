package ssh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteLayout(t *testing.T) {
	store := &Store{
		name:       "ssh_test",
		host:       "bastion.example.com",
		remotePath: "/var/lib/aws_config",
	}

	assert.Equal(t, "/var/lib/aws_config/my_app-dev/my_app-dev-latest.json", store.latestPath("my_app-dev"))
	assert.Equal(t, "/var/lib/aws_config/my_app-dev/my_app-dev-latest.meta.json", store.metaPath("my_app-dev"))
	assert.Equal(t, "/var/lib/aws_config/my_app-dev/my_app-dev-000007.json", store.versionedPath("my_app-dev", "7"))
	assert.Equal(t, "bastion.example.com:/var/lib/aws_config/my_app-dev/my_app-dev-latest.json",
		store.location(store.latestPath("my_app-dev")))
}

func TestParseConfig(t *testing.T) {
	t.Run("full_options", func(t *testing.T) {
		cfg, err := parseConfig(map[string]interface{}{
			"host":           "bastion.example.com",
			"port":           float64(2222),
			"user":           "deploy",
			"key_path":       "/home/deploy/.ssh/id_ed25519",
			"key_passphrase": "hunter2",
			"remote_path":    "/var/lib/aws_config",
		})

		require.NoError(t, err)
		assert.Equal(t, "bastion.example.com", cfg.Host)
		assert.Equal(t, 2222, cfg.Port)
		assert.Equal(t, "deploy", cfg.User)
		assert.Equal(t, "/home/deploy/.ssh/id_ed25519", cfg.KeyPath)
		assert.Equal(t, "hunter2", cfg.KeyPassphrase)
		assert.Equal(t, "/var/lib/aws_config", cfg.RemotePath)
	})

	t.Run("port_defaults_to_22", func(t *testing.T) {
		cfg, err := parseConfig(map[string]interface{}{
			"host":        "bastion.example.com",
			"user":        "deploy",
			"password":    "hunter2",
			"remote_path": "/var/lib/aws_config",
		})

		require.NoError(t, err)
		assert.Equal(t, 22, cfg.Port)
	})

	t.Run("host_is_required", func(t *testing.T) {
		_, err := parseConfig(map[string]interface{}{
			"user":        "deploy",
			"password":    "hunter2",
			"remote_path": "/var/lib/aws_config",
		})

		assert.ErrorContains(t, err, "host")
	})

	t.Run("remote_path_is_required", func(t *testing.T) {
		_, err := parseConfig(map[string]interface{}{
			"host":     "bastion.example.com",
			"user":     "deploy",
			"password": "hunter2",
		})

		assert.ErrorContains(t, err, "remote_path")
	})

	t.Run("an_auth_method_is_required", func(t *testing.T) {
		_, err := parseConfig(map[string]interface{}{
			"host":        "bastion.example.com",
			"user":        "deploy",
			"remote_path": "/var/lib/aws_config",
		})

		assert.ErrorContains(t, err, "password or key_path")
	})
}
