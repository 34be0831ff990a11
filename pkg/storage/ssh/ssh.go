package ssh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/williamokano/aws_config/pkg/storage"
)

// Store keeps parameters on a remote host over SFTP, using the same
// layout as the local store under remote_path:
//
//	{remote_path}/{name}/{name}-latest.json
//	{remote_path}/{name}/{name}-latest.meta.json
//	{remote_path}/{name}/{name}-000001.json
//
// Useful when configuration has to reach a bastion or legacy host that
// cannot talk to AWS directly.
type Store struct {
	name       string
	host       string
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	remotePath string
}

// meta is the sidecar for the latest file
type meta struct {
	Version string `json:"config_version"`
	SHA256  string `json:"config_sha256"`
}

func init() {
	storage.RegisterStore("ssh", func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return New(cfg)
	})
}

// New creates a new SSH/SFTP store
func New(cfg storage.Config) (*Store, error) {
	sshCfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, err
	}

	// Build SSH client config
	clientConfig := &ssh.ClientConfig{
		User:            sshCfg.User,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: Add host key verification
		Timeout:         30 * time.Second,
	}

	// Add authentication methods
	if sshCfg.Password != "" {
		clientConfig.Auth = append(clientConfig.Auth, ssh.Password(sshCfg.Password))
	}

	if sshCfg.KeyPath != "" {
		key, err := os.ReadFile(sshCfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH key: %w", err)
		}

		var signer ssh.Signer
		if sshCfg.KeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(sshCfg.KeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key: %w", err)
		}

		clientConfig.Auth = append(clientConfig.Auth, ssh.PublicKeys(signer))
	}

	// Connect to SSH server
	addr := fmt.Sprintf("%s:%d", sshCfg.Host, sshCfg.Port)
	sshClient, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "connect", storage.ErrConnFailed)
	}

	// Create SFTP client
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, storage.WrapError(cfg.Name, "sftp init", err)
	}

	// Ensure remote directory exists
	if err := sftpClient.MkdirAll(sshCfg.RemotePath); err != nil {
		sftpClient.Close()
		sshClient.Close()
		return nil, storage.WrapError(cfg.Name, "mkdir", err)
	}

	return &Store{
		name:       cfg.Name,
		host:       sshCfg.Host,
		sshClient:  sshClient,
		sftpClient: sftpClient,
		remotePath: sshCfg.RemotePath,
	}, nil
}

func (s *Store) Name() string { return s.name }
func (s *Store) Type() string { return "ssh" }

// ReadLatest returns the most recent value of a parameter
func (s *Store) ReadLatest(ctx context.Context, name string) (*storage.Parameter, error) {
	value, err := s.readFile(s.latestPath(name))
	if err != nil {
		return nil, err
	}

	m := s.readMeta(name)
	if m.Version == "" {
		if highest, scanErr := s.scanVersions(name); scanErr == nil {
			m.Version = strconv.Itoa(highest)
		}
	}
	if m.SHA256 == "" {
		m.SHA256, _ = storage.SHA256OfJSON(value)
	}

	return &storage.Parameter{
		Name:    name,
		Value:   value,
		Version: storage.EncodeVersion(m.Version),
		SHA256:  m.SHA256,
	}, nil
}

// Read returns a specific version of a parameter
func (s *Store) Read(ctx context.Context, name string, version string) (*storage.Parameter, error) {
	if storage.IsLatest(version) {
		return s.ReadLatest(ctx, name)
	}

	version = storage.EncodeVersion(version)
	value, err := s.readFile(s.versionedPath(name, version))
	if err != nil {
		return nil, err
	}

	sha, _ := storage.SHA256OfJSON(value)
	return &storage.Parameter{
		Name:    name,
		Value:   value,
		Version: version,
		SHA256:  sha,
	}, nil
}

// LatestVersion returns the version number of the most recent value
func (s *Store) LatestVersion(ctx context.Context, name string) (string, error) {
	if m := s.readMeta(name); m.Version != "" {
		return m.Version, nil
	}
	highest, err := s.scanVersions(name)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(highest), nil
}

// Deploy uploads value as the new latest version of the parameter. The
// upload is skipped when the stored document is identical. Tags have no
// SFTP equivalent and are ignored.
func (s *Store) Deploy(ctx context.Context, name string, value []byte, tags map[string]string) (*storage.Deployment, error) {
	sha, err := storage.SHA256OfJSON(value)
	if err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}

	existing, err := s.ReadLatest(ctx, name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if existing != nil && storage.SameJSON(existing.Value, value) {
		return &storage.Deployment{
			Parameter: name,
			Version:   existing.Version,
			SHA256:    sha,
			Location:  s.location(s.latestPath(name)),
			Skipped:   true,
		}, nil
	}

	current, err := s.LatestVersion(ctx, name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		current = "0"
	}
	n, _ := strconv.Atoi(current)
	next := strconv.Itoa(n + 1)

	metaRaw, err := json.Marshal(meta{Version: next, SHA256: sha})
	if err != nil {
		return nil, storage.WrapError(s.name, "deploy", err)
	}

	versionedPath := s.versionedPath(name, next)
	err = storage.WithRetry(ctx, storage.DefaultRetryConfig(), func() error {
		if err := s.sftpClient.MkdirAll(path.Join(s.remotePath, name)); err != nil {
			return storage.WrapError(s.name, "mkdir", err)
		}
		if err := s.writeFile(versionedPath, value); err != nil {
			return storage.WrapError(s.name, "upload", err)
		}
		if err := s.writeFile(s.latestPath(name), value); err != nil {
			return storage.WrapError(s.name, "upload", err)
		}
		if err := s.writeFile(s.metaPath(name), metaRaw); err != nil {
			return storage.WrapError(s.name, "upload", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &storage.Deployment{
		Parameter: name,
		Version:   next,
		SHA256:    sha,
		Location:  s.location(versionedPath),
	}, nil
}

// Delete removes a parameter. Without includeHistory only the latest
// file and its sidecar go away; history files survive for recovery.
func (s *Store) Delete(ctx context.Context, name string, includeHistory bool) error {
	if includeHistory {
		if err := s.sftpClient.RemoveAll(path.Join(s.remotePath, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return storage.WrapError(s.name, "delete", err)
		}
		return nil
	}

	for _, p := range []string{s.latestPath(name), s.metaPath(name)} {
		if err := s.sftpClient.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return storage.WrapError(s.name, "delete", err)
		}
	}
	return nil
}

// Prune removes history files beyond the keep newest versions
func (s *Store) Prune(ctx context.Context, name string, keep int) ([]string, error) {
	versions, err := s.listVersions(name)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, n := range storage.VersionsToPrune(versions, keep) {
		p := s.versionedPath(name, strconv.Itoa(n))
		if err := s.sftpClient.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, storage.WrapError(s.name, "prune", err)
		}
		removed = append(removed, s.location(p))
	}
	return removed, nil
}

// Close releases the SFTP session and the SSH connection
func (s *Store) Close() error {
	if s.sftpClient != nil {
		s.sftpClient.Close()
	}
	if s.sshClient != nil {
		s.sshClient.Close()
	}
	return nil
}

// Helper functions

func (s *Store) latestPath(name string) string {
	return path.Join(s.remotePath, name, name+"-latest.json")
}

func (s *Store) metaPath(name string) string {
	return path.Join(s.remotePath, name, name+"-latest.meta.json")
}

func (s *Store) versionedPath(name, version string) string {
	return path.Join(s.remotePath, name, name+"-"+storage.ZeroPadVersion(version)+".json")
}

// location renders an scp-style address for deployment reporting
func (s *Store) location(p string) string {
	return s.host + ":" + p
}

func (s *Store) readFile(p string) ([]byte, error) {
	f, err := s.sftpClient.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.WrapError(s.name, "read", fmt.Errorf("%w: %s", storage.ErrNotFound, p))
		}
		return nil, storage.WrapError(s.name, "read", err)
	}
	defer f.Close()

	value, err := io.ReadAll(f)
	if err != nil {
		return nil, storage.WrapError(s.name, "read", err)
	}
	return value, nil
}

func (s *Store) writeFile(p string, value []byte) error {
	f, err := s.sftpClient.Create(p)
	if err != nil {
		return err
	}
	if _, err := f.Write(value); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) readMeta(name string) meta {
	var m meta
	raw, err := s.readFile(s.metaPath(name))
	if err != nil {
		return m
	}
	_ = json.Unmarshal(raw, &m)
	return m
}

func (s *Store) scanVersions(name string) (int, error) {
	versions, err := s.listVersions(name)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, n := range versions {
		if n > highest {
			highest = n
		}
	}

	if highest == 0 {
		return 0, storage.WrapError(s.name, "list", fmt.Errorf("%w: %s", storage.ErrNotFound, name))
	}
	return highest, nil
}

func (s *Store) listVersions(name string) ([]int, error) {
	entries, err := s.sftpClient.ReadDir(path.Join(s.remotePath, name))
	if err != nil {
		return nil, storage.WrapError(s.name, "list", fmt.Errorf("%w: %s", storage.ErrNotFound, name))
	}

	var versions []int
	for _, entry := range entries {
		stem := strings.TrimSuffix(entry.Name(), ".json")
		idx := strings.LastIndex(stem, "-")
		if idx < 0 {
			continue
		}
		if n, err := strconv.Atoi(stem[idx+1:]); err == nil {
			versions = append(versions, n)
		}
	}
	return versions, nil
}
