package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/aws_config/pkg/envs"
	"github.com/williamokano/aws_config/pkg/storage"
	_ "github.com/williamokano/aws_config/pkg/storage/local"
)

type testEnv struct {
	envs.Core
	Username  string `json:"username"`
	Password  string `json:"password"`
	AwsRegion string `json:"aws_region"`
}

var sampleNames = envs.Names{envs.EnvDev, envs.EnvPrd}

func sampleData() map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		Defaults: {
			"*.project_name": "my_app",
			"*.aws_region":   "us-east-1",
		},
		"dev": {
			"s3uri_data":      "s3://myapp-dev/data/",
			"s3uri_artifacts": "s3://myapp-dev/artifacts/",
			"username":        "alice",
		},
		"prd": {
			"s3uri_data":      "s3://myapp-prd/data/",
			"s3uri_artifacts": "s3://myapp-prd/artifacts/",
			"username":        "bob",
		},
	}
}

func sampleSecretData() map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		"dev": {
			"aws_account_id": "111111111111",
			"password":       "alicepassword",
		},
		"prd": {
			"aws_account_id": "111111111111",
			"password":       "bobpassword",
		},
	}
}

func newSampleConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := New(sampleData(), sampleSecretData(), sampleNames, "0.1.1")
	require.NoError(t, err)
	return cfg
}

func TestNew(t *testing.T) {
	t.Run("happy_path", func(t *testing.T) {
		cfg := newSampleConfig(t)

		assert.Equal(t, "my_app", cfg.ProjectName())
		assert.Equal(t, "my_app", cfg.ProjectNameSnake())
		assert.Equal(t, "my-app", cfg.ProjectNameSlug())
		assert.Equal(t, "my_app", cfg.ParameterName())
		assert.Equal(t, "0.1.1", cfg.Version)
		assert.Equal(t, []string{"dev", "prd"}, cfg.EnvNames())
	})

	t.Run("resolves_env_with_inherited_values", func(t *testing.T) {
		cfg := newSampleConfig(t)

		env, err := GetEnv[testEnv](cfg, "dev")
		require.NoError(t, err)
		assert.Equal(t, "dev", env.EnvName)
		assert.Equal(t, "alice", env.Username)
		assert.Equal(t, "alicepassword", env.Password)
		assert.Equal(t, "us-east-1", env.AwsRegion)
		assert.Equal(t, "my_app", env.ProjectName)
		assert.Equal(t, "my_app-dev", env.Core.ParameterName())

		env, err = GetEnv[testEnv](cfg, "prd")
		require.NoError(t, err)
		assert.Equal(t, "bob", env.Username)
		assert.Equal(t, "bobpassword", env.Password)
	})

	t.Run("env_parameter_names", func(t *testing.T) {
		cfg := newSampleConfig(t)

		name, err := cfg.EnvParameterName("dev")
		require.NoError(t, err)
		assert.Equal(t, "my_app-dev", name)

		name, err = cfg.EnvParameterName(envs.All)
		require.NoError(t, err)
		assert.Equal(t, "my_app", name)

		_, err = cfg.EnvParameterName("qa")
		assert.Error(t, err)
	})

	t.Run("missing_project_name", func(t *testing.T) {
		data := sampleData()
		delete(data[Defaults], "*.project_name")

		_, err := New(data, nil, sampleNames, "0.1.1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "*.project_name")
	})

	t.Run("invalid_project_name", func(t *testing.T) {
		data := sampleData()
		data[Defaults]["*.project_name"] = "My App"

		_, err := New(data, nil, sampleNames, "0.1.1")
		assert.Error(t, err)
	})

	t.Run("unknown_env_section", func(t *testing.T) {
		data := sampleData()
		data["qa"] = map[string]interface{}{"username": "carol"}

		_, err := New(data, nil, sampleNames, "0.1.1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown env name")
	})

	t.Run("reserved_section_name", func(t *testing.T) {
		data := sampleData()
		data[envs.All] = map[string]interface{}{}

		_, err := New(data, nil, sampleNames, "0.1.1")
		assert.Error(t, err)
	})

	t.Run("no_secret_data", func(t *testing.T) {
		cfg, err := New(sampleData(), nil, sampleNames, "0.1.1")
		require.NoError(t, err)

		env, err := GetEnv[testEnv](cfg, "dev")
		require.NoError(t, err)
		assert.Equal(t, "alice", env.Username)
		assert.Empty(t, env.Password)
	})
}

func TestInheritance(t *testing.T) {
	names := envs.Names{envs.EnvDev, envs.EnvPrd}

	t.Run("env_scoped_defaults_win_over_wildcard", func(t *testing.T) {
		cfg, err := New(map[string]map[string]interface{}{
			Defaults: {
				"*.project_name": "my_app",
				"*.owner":        "shared-owner",
				"dev.owner":      "dev-owner",
			},
			"dev": {},
			"prd": {},
		}, nil, names, "1")
		require.NoError(t, err)

		dev, err := cfg.EnvData("dev")
		require.NoError(t, err)
		assert.Equal(t, "dev-owner", dev["owner"])

		prd, err := cfg.EnvData("prd")
		require.NoError(t, err)
		assert.Equal(t, "shared-owner", prd["owner"])
	})

	t.Run("explicit_values_are_never_overwritten", func(t *testing.T) {
		cfg, err := New(map[string]map[string]interface{}{
			Defaults: {
				"*.project_name": "my_app",
				"*.aws_region":   "us-east-1",
			},
			"dev": {"aws_region": "eu-west-1"},
			"prd": {},
		}, nil, names, "1")
		require.NoError(t, err)

		dev, err := cfg.EnvData("dev")
		require.NoError(t, err)
		assert.Equal(t, "eu-west-1", dev["aws_region"])

		prd, err := cfg.EnvData("prd")
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", prd["aws_region"])
	})

	t.Run("dotted_paths_create_nested_maps", func(t *testing.T) {
		cfg, err := New(map[string]map[string]interface{}{
			Defaults: {
				"*.project_name":    "my_app",
				"*.servers.blue.ip": "10.0.0.1",
			},
			"dev": {
				"servers": map[string]interface{}{
					"blue": map[string]interface{}{"cpu": 4},
				},
			},
			"prd": {
				// Explicit non-map value blocks the nested fill.
				"servers": "none",
			},
		}, nil, names, "1")
		require.NoError(t, err)

		dev, err := cfg.EnvData("dev")
		require.NoError(t, err)
		blue := dev["servers"].(map[string]interface{})["blue"].(map[string]interface{})
		assert.Equal(t, "10.0.0.1", blue["ip"])
		assert.Equal(t, 4, blue["cpu"])

		prd, err := cfg.EnvData("prd")
		require.NoError(t, err)
		assert.Equal(t, "none", prd["servers"])
	})

	t.Run("malformed_defaults_key", func(t *testing.T) {
		_, err := New(map[string]map[string]interface{}{
			Defaults: {
				"*.project_name": "my_app",
				"noscope":        true,
			},
			"dev": {},
			"prd": {},
		}, nil, names, "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "noscope")
	})
}

func TestSecretMerge(t *testing.T) {
	names := envs.Names{envs.EnvDev}

	t.Run("secret_wins_on_conflict", func(t *testing.T) {
		cfg, err := New(map[string]map[string]interface{}{
			Defaults: {"*.project_name": "my_app"},
			"dev":    {"password": "public"},
		}, map[string]map[string]interface{}{
			"dev": {"password": "hidden"},
		}, names, "1")
		require.NoError(t, err)

		dev, err := cfg.EnvData("dev")
		require.NoError(t, err)
		assert.Equal(t, "hidden", dev["password"])
	})

	t.Run("deep_merge_preserves_siblings", func(t *testing.T) {
		cfg, err := New(map[string]map[string]interface{}{
			Defaults: {"*.project_name": "my_app"},
			"dev": {
				"database": map[string]interface{}{
					"host": "db.myapp.com",
					"port": 5432,
				},
			},
		}, map[string]map[string]interface{}{
			"dev": {
				"database": map[string]interface{}{
					"password": "dbpassword",
				},
			},
		}, names, "1")
		require.NoError(t, err)

		dev, err := cfg.EnvData("dev")
		require.NoError(t, err)
		database := dev["database"].(map[string]interface{})
		assert.Equal(t, "db.myapp.com", database["host"])
		assert.Equal(t, 5432, database["port"])
		assert.Equal(t, "dbpassword", database["password"])
	})
}

func TestMaskedEnvData(t *testing.T) {
	cfg := newSampleConfig(t)

	masked, err := cfg.MaskedEnvData("dev")
	require.NoError(t, err)
	assert.Equal(t, "alice", masked["username"])
	assert.Equal(t, "******", masked["password"])
	assert.Equal(t, "******", masked["aws_account_id"])
	assert.Equal(t, "us-east-1", masked["aws_region"])

	_, err = cfg.MaskedEnvData("qa")
	assert.Error(t, err)
}

func TestEnvParameterData(t *testing.T) {
	names := envs.Names{envs.EnvDev, envs.EnvPrd}
	data := map[string]map[string]interface{}{
		Defaults: {
			"*.project_name": "my_app",
			"dev.endpoint":   "https://dev.example.com",
			"prd.endpoint":   "https://prd.example.com",
		},
		"dev": {"username": "alice"},
		"prd": {"username": "bob"},
	}
	secret := map[string]map[string]interface{}{
		"dev": {"password": "alicepassword"},
		"prd": {"password": "bobpassword"},
	}
	cfg, err := New(data, secret, names, "1")
	require.NoError(t, err)

	t.Run("env_payload_carries_only_its_scope", func(t *testing.T) {
		name, payload, err := cfg.EnvParameterData("dev")
		require.NoError(t, err)
		assert.Equal(t, "my_app-dev", name)

		assert.Equal(t, map[string]interface{}{
			"data": map[string]interface{}{
				Defaults: map[string]interface{}{
					"*.project_name": "my_app",
					"dev.endpoint":   "https://dev.example.com",
				},
				"dev": map[string]interface{}{"username": "alice"},
			},
			"secret_data": map[string]interface{}{
				Defaults: map[string]interface{}{},
				"dev":    map[string]interface{}{"password": "alicepassword"},
			},
		}, payload)
	})

	t.Run("all_payload_carries_the_whole_document", func(t *testing.T) {
		name, payload, err := cfg.EnvParameterData(envs.All)
		require.NoError(t, err)
		assert.Equal(t, "my_app", name)

		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		expected, err := json.Marshal(map[string]interface{}{
			"data":        data,
			"secret_data": secret,
		})
		require.NoError(t, err)
		assert.JSONEq(t, string(expected), string(raw))
	})

	t.Run("unknown_env", func(t *testing.T) {
		_, _, err := cfg.EnvParameterData("qa")
		assert.Error(t, err)
	})

	t.Run("missing_section", func(t *testing.T) {
		cfg, err := New(map[string]map[string]interface{}{
			Defaults: {"*.project_name": "my_app"},
			"dev":    {"username": "alice"},
		}, nil, names, "1")
		require.NoError(t, err)

		_, _, err = cfg.EnvParameterData("prd")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no configuration section")
	})
}

func TestLoad(t *testing.T) {
	t.Run("valid_documents", func(t *testing.T) {
		data := []byte(`{
			"defaults": {"*.project_name": "my_app"},
			"dev": {"username": "alice"}
		}`)
		secret := []byte(`{
			"dev": {"password": "alicepassword"}
		}`)

		cfg, err := Load(data, secret, envs.Names{envs.EnvDev}, "1.2.3")
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", cfg.Version)

		env, err := GetEnv[testEnv](cfg, "dev")
		require.NoError(t, err)
		assert.Equal(t, "alice", env.Username)
		assert.Equal(t, "alicepassword", env.Password)
	})

	t.Run("rejects_non_object_section", func(t *testing.T) {
		_, err := Load([]byte(`{"dev": "nope"}`), nil, envs.Names{envs.EnvDev}, "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not valid")
	})

	t.Run("rejects_unscoped_defaults_key", func(t *testing.T) {
		_, err := Load([]byte(`{
			"defaults": {"project_name": "my_app"},
			"dev": {}
		}`), nil, envs.Names{envs.EnvDev}, "1")
		assert.Error(t, err)
	})

	t.Run("rejects_invalid_json", func(t *testing.T) {
		_, err := Load([]byte(`{`), nil, envs.Names{envs.EnvDev}, "1")
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.json")
	secretFile := filepath.Join(dir, "secret.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{
		"defaults": {"*.project_name": "my_app"},
		"dev": {"username": "alice"}
	}`), 0644))
	require.NoError(t, os.WriteFile(secretFile, []byte(`{
		"dev": {"password": "alicepassword"}
	}`), 0644))

	t.Run("with_secret_file", func(t *testing.T) {
		cfg, err := LoadFile(configFile, secretFile, envs.Names{envs.EnvDev}, "1")
		require.NoError(t, err)

		env, err := GetEnv[testEnv](cfg, "dev")
		require.NoError(t, err)
		assert.Equal(t, "alicepassword", env.Password)
	})

	t.Run("without_secret_file", func(t *testing.T) {
		cfg, err := LoadFile(configFile, "", envs.Names{envs.EnvDev}, "1")
		require.NoError(t, err)
		assert.Equal(t, "my_app", cfg.ProjectName())
	})

	t.Run("missing_config_file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.json"), "", envs.Names{envs.EnvDev}, "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open config file")
	})

	t.Run("validate_file", func(t *testing.T) {
		require.NoError(t, ValidateFile(configFile))

		badFile := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(badFile, []byte(`{"dev": "nope"}`), 0644))
		assert.Error(t, ValidateFile(badFile))
	})
}

func TestLoadStore(t *testing.T) {
	ctx := context.Background()

	factory := storage.NewFactory()
	store, err := factory.Create(ctx, storage.Config{
		Name:    "local_test",
		Type:    "local",
		Enabled: true,
		Options: map[string]interface{}{"path": t.TempDir()},
	})
	require.NoError(t, err)
	defer store.Close()

	original := newSampleConfig(t)
	raw, err := json.Marshal(original.ParameterData())
	require.NoError(t, err)

	deployed, err := store.Deploy(ctx, original.ParameterName(), raw, nil)
	require.NoError(t, err)
	require.False(t, deployed.Skipped)

	t.Run("round_trips_through_a_store", func(t *testing.T) {
		loaded, err := LoadStore(ctx, store, "my_app", sampleNames)
		require.NoError(t, err)
		assert.Equal(t, deployed.Version, loaded.Version)
		assert.Equal(t, "my_app", loaded.ProjectName())

		env, err := GetEnv[testEnv](loaded, "dev")
		require.NoError(t, err)
		assert.Equal(t, "alice", env.Username)
		assert.Equal(t, "alicepassword", env.Password)
	})

	t.Run("missing_parameter", func(t *testing.T) {
		_, err := LoadStore(ctx, store, "nope", sampleNames)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
