package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/williamokano/aws_config/pkg/envs"
	"github.com/williamokano/aws_config/pkg/naming"
)

// Config is a multi-env configuration document pair. Data and SecretData
// are kept apart so they can live in different files with different
// access rules, and are only merged when an env is resolved.
//
// Both documents are maps of sections keyed by env name, plus an
// optional Defaults section whose scoped entries are inherited into the
// env sections. The project name comes from the "*.project_name"
// defaults entry.
type Config struct {
	Data       map[string]map[string]interface{}
	SecretData map[string]map[string]interface{}
	Names      envs.Names
	Version    string

	projectName    string
	resolved       map[string]map[string]interface{}
	resolvedSecret map[string]map[string]interface{}
}

// New validates the documents and resolves inheritance and merging.
// Every non-defaults section key must be one of the given env names.
func New(data, secretData map[string]map[string]interface{}, names envs.Names, version string) (*Config, error) {
	if secretData == nil {
		secretData = map[string]map[string]interface{}{}
	}
	c := &Config{
		Data:       data,
		SecretData: secretData,
		Names:      names,
		Version:    version,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if err := c.Names.Validate(); err != nil {
		return err
	}

	defaults := c.Data[Defaults]
	projectName, ok := defaults["*.project_name"].(string)
	if !ok || projectName == "" {
		return fmt.Errorf("defaults section must provide *.project_name")
	}
	if err := naming.ValidateProjectName(projectName); err != nil {
		return err
	}
	c.projectName = projectName

	for _, doc := range []map[string]map[string]interface{}{c.Data, c.SecretData} {
		for name := range doc {
			if name == Defaults {
				continue
			}
			if err := envs.ValidateEnvName(name); err != nil {
				return err
			}
			if !c.Names.Contains(name) {
				return fmt.Errorf("unknown env name %q in config document", name)
			}
		}
	}
	return nil
}

func (c *Config) resolve() error {
	applied, err := applyInheritance(c.Data)
	if err != nil {
		return err
	}
	appliedSecret, err := applyInheritance(c.SecretData)
	if err != nil {
		return err
	}
	c.resolvedSecret = appliedSecret
	c.resolved, err = mergeSections(applied, appliedSecret)
	return err
}

// ProjectName returns the project name from the defaults section.
func (c *Config) ProjectName() string { return c.projectName }

// ProjectNameSnake returns the project name in snake_case.
func (c *Config) ProjectNameSnake() string { return naming.Snakeify(c.projectName) }

// ProjectNameSlug returns the project name in slug-case.
func (c *Config) ProjectNameSlug() string { return naming.Slugify(c.projectName) }

// ParameterName is the name of the consolidated parameter holding every
// env, with no env suffix. Admin tooling reads this one.
func (c *Config) ParameterName() string {
	return naming.NormalizeParameterName(c.ProjectNameSnake())
}

// EnvParameterName returns the parameter name for one env, or the
// consolidated name for envs.All.
func (c *Config) EnvParameterName(envName string) (string, error) {
	if envName == envs.All {
		return c.ParameterName(), nil
	}
	name, err := c.Names.Ensure(envName)
	if err != nil {
		return "", err
	}
	return naming.NormalizeParameterName(c.ProjectNameSnake() + "-" + string(name)), nil
}

// EnvNames returns the env sections present in the data document, in
// Names order.
func (c *Config) EnvNames() []string {
	var out []string
	for _, name := range c.Names {
		if _, ok := c.Data[string(name)]; ok {
			out = append(out, string(name))
		}
	}
	return out
}

// EnvData returns the fully resolved configuration for one env with
// env_name injected, ready to be decoded into a typed struct.
func (c *Config) EnvData(envName string) (map[string]interface{}, error) {
	name, err := c.Names.Ensure(envName)
	if err != nil {
		return nil, err
	}
	section, ok := c.resolved[string(name)]
	if !ok {
		return nil, fmt.Errorf("env %s has no configuration section", name)
	}
	out := deepCopySection(section)
	out["env_name"] = string(name)
	return out, nil
}

// MaskedEnvData returns EnvData with every value that came from the
// secret document replaced by a mask, for safe display.
func (c *Config) MaskedEnvData(envName string) (map[string]interface{}, error) {
	out, err := c.EnvData(envName)
	if err != nil {
		return nil, err
	}
	maskValues(out, c.resolvedSecret[envName])
	return out, nil
}

func maskValues(dst, secret map[string]interface{}) {
	for k, sv := range secret {
		sm, secretIsMap := sv.(map[string]interface{})
		dm, dstIsMap := dst[k].(map[string]interface{})
		if secretIsMap && dstIsMap {
			maskValues(dm, sm)
			continue
		}
		if _, ok := dst[k]; ok {
			dst[k] = "******"
		}
	}
}

// DecodeEnv decodes the resolved env configuration into out, which
// usually embeds envs.Core.
func (c *Config) DecodeEnv(envName string, out interface{}) error {
	data, err := c.EnvData(envName)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize env %s: %w", envName, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode env %s: %w", envName, err)
	}
	return nil
}

// GetEnv returns the resolved env configuration decoded as E.
func GetEnv[E any](c *Config, envName string) (E, error) {
	var env E
	if err := c.DecodeEnv(envName, &env); err != nil {
		return env, err
	}
	return env, nil
}

// ParameterData returns the consolidated parameter payload holding the
// raw documents for every env.
func (c *Config) ParameterData() map[string]interface{} {
	return map[string]interface{}{
		"data":        copyDocument(c.Data),
		"secret_data": copyDocument(c.SecretData),
	}
}

// EnvParameterData returns the parameter name and payload for one env:
// the env's raw sections plus the defaults entries scoped to it, so the
// deployed parameter leaks nothing from other envs. For envs.All it
// returns the consolidated document.
func (c *Config) EnvParameterData(envName string) (string, map[string]interface{}, error) {
	if envName == envs.All {
		return c.ParameterName(), c.ParameterData(), nil
	}
	name, err := c.Names.Ensure(envName)
	if err != nil {
		return "", nil, err
	}
	if _, ok := c.Data[string(name)]; !ok {
		return "", nil, fmt.Errorf("env %s has no configuration section", name)
	}

	parameterName, err := c.EnvParameterName(string(name))
	if err != nil {
		return "", nil, err
	}
	payload := map[string]interface{}{
		"data":        envDocument(c.Data, string(name)),
		"secret_data": envDocument(c.SecretData, string(name)),
	}
	return parameterName, payload, nil
}

// envDocument carves one env's slice out of a document: its own section
// plus the defaults entries scoped "*." or "<env>.".
func envDocument(doc map[string]map[string]interface{}, envName string) map[string]interface{} {
	defaults := map[string]interface{}{}
	for k, v := range doc[Defaults] {
		if strings.HasPrefix(k, "*") || strings.HasPrefix(k, envName+".") {
			defaults[k] = deepCopyValue(v)
		}
	}
	section := map[string]interface{}{}
	if s, ok := doc[envName]; ok {
		section = deepCopySection(s)
	}
	return map[string]interface{}{
		Defaults: defaults,
		envName:  section,
	}
}
