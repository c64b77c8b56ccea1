package tunnel

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"
)

// defaultKeyNames are tried, in order, under ~/.ssh when no key or
// agent is configured explicitly.
var defaultKeyNames = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// signerSource yields signers for public-key authentication.  Agent
// sources are queried at handshake time.
type signerSource func() ([]ssh.Signer, error)

// BuildAuthMethods returns the authentication methods for cfg: a single
// publickey method covering every usable key, then a password prompt if
// cfg.PromptPass is set.  Without explicit settings the agent and the
// usual key files under ~/.ssh are used.
func BuildAuthMethods(cfg *SSHConfig) ([]ssh.AuthMethod, error) {
	var sources []signerSource

	if cfg.KeyPath != "" {
		signer, err := loadKeyFile(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", cfg.KeyPath, err)
		}
		sources = append(sources, fixedSigners(signer))
	}
	if cfg.UseAgent {
		src, err := agentSigners()
		if err != nil {
			return nil, fmt.Errorf("ssh-agent: %w", err)
		}
		sources = append(sources, src)
	}
	if cfg.KeyPath == "" && !cfg.UseAgent && !cfg.PromptPass {
		sources = discoverSigners()
	}

	var methods []ssh.AuthMethod
	if len(sources) > 0 {
		methods = append(methods, ssh.PublicKeysCallback(mergeSigners(sources)))
	}
	if cfg.PromptPass {
		methods = append(methods, passwordAuth(readPassword))
	}
	if len(methods) == 0 {
		return nil, errors.New("no SSH authentication methods available; " +
			"set SOCKET_SSH_KEY, SOCKET_SSH_AGENT or SOCKET_SSH_PASSWORD")
	}
	return methods, nil
}

// mergeSigners concatenates the signers of every source.  A source that
// fails (an agent that went away) is skipped.
func mergeSigners(sources []signerSource) func() ([]ssh.Signer, error) {
	return func() ([]ssh.Signer, error) {
		var all []ssh.Signer
		for _, src := range sources {
			signers, err := src()
			if err != nil {
				continue
			}
			all = append(all, signers...)
		}
		return all, nil
	}
}

func fixedSigners(signers ...ssh.Signer) signerSource {
	return func() ([]ssh.Signer, error) { return signers, nil }
}

// ── sources ──────────────────────────────────────────────────────────

// loadKeyFile parses a private key, asking for the passphrase when the
// key is encrypted.
func loadKeyFile(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	var missing *ssh.PassphraseMissingError
	switch {
	case err == nil:
		return signer, nil
	case !errors.As(err, &missing):
		return nil, fmt.Errorf("parsing key: %w", err)
	}

	pass, err := readPassword(fmt.Sprintf("Enter passphrase for %s: ", path))
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	signer, err = ssh.ParsePrivateKeyWithPassphrase(data, pass)
	if err != nil {
		return nil, fmt.Errorf("decrypting key: %w", err)
	}
	return signer, nil
}

func agentSigners() (signerSource, error) {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, errors.New("SSH_AUTH_SOCK is not set")
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, fmt.Errorf("connecting to agent at %s: %w", sock, err)
	}
	return agent.NewClient(conn).Signers, nil
}

// discoverSigners collects the agent, when reachable, and whichever
// default key files exist and parse.
func discoverSigners() []signerSource {
	var sources []signerSource
	if src, err := agentSigners(); err == nil {
		sources = append(sources, src)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return sources
	}
	var keys []ssh.Signer
	for _, name := range defaultKeyNames {
		p := filepath.Join(home, ".ssh", name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if s, err := loadKeyFile(p); err == nil {
			keys = append(keys, s)
		}
	}
	if len(keys) > 0 {
		sources = append(sources, fixedSigners(keys...))
	}
	return sources
}

// ── passwords ────────────────────────────────────────────────────────

// readPassword prompts on stderr and reads a line from the terminal
// without echo.  Tests replace it.
var readPassword = func(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	return term.ReadPassword(fd)
}

// passwordAuth asks for the password only when the gateway offers
// password authentication.
func passwordAuth(read func(string) ([]byte, error)) ssh.AuthMethod {
	return ssh.PasswordCallback(func() (string, error) {
		pass, err := read("SSH password: ")
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(pass), nil
	})
}

// ── host keys ────────────────────────────────────────────────────────

func hostKeyCallback(cfg *SSHConfig) (ssh.HostKeyCallback, error) {
	if !cfg.StrictHostKey {
		//nolint:gosec // host key checking is opt-in via SOCKET_STRICT_HOSTKEY
		return ssh.InsecureIgnoreHostKey(), nil
	}
	path, err := knownHostsPath(cfg)
	if err != nil {
		return nil, err
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("loading known_hosts from %s: %w", path, err)
	}
	return cb, nil
}

func knownHostsPath(cfg *SSHConfig) (string, error) {
	if cfg.KnownHosts != "" {
		return cfg.KnownHosts, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "known_hosts"), nil
}
