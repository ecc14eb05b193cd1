package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SFTPConfig locates a remote drop box. KnownHostsFile is required unless
// InsecureIgnoreHostKey is set.
type SFTPConfig struct {
	Host                  string
	Port                  int
	User                  string
	Password              string
	KnownHostsFile        string
	InsecureIgnoreHostKey bool
	Timeout               time.Duration
}

// ErrSFTPNotConfigured is returned when host or credentials are missing.
var ErrSFTPNotConfigured = errors.New("sftp: host, user and password are required")

// FetchSFTP copies remotePath into w and returns the number of bytes copied.
func FetchSFTP(ctx context.Context, cfg SFTPConfig, remotePath string, w io.Writer) (int64, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		return 0, ErrSFTPNotConfigured
	}
	hostKey, err := hostKeyCallback(cfg)
	if err != nil {
		return 0, err
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("sftp: dial %s: %w", addr, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: hostKey,
		Timeout:         cfg.Timeout,
	})
	if err != nil {
		_ = conn.Close()
		return 0, fmt.Errorf("sftp: handshake: %w", err)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return 0, fmt.Errorf("sftp: new client: %w", err)
	}
	defer client.Close()

	return copyRemote(ctx, client, remotePath, w)
}

func copyRemote(ctx context.Context, client *sftp.Client, remotePath string, w io.Writer) (int64, error) {
	src, err := client.Open(remotePath)
	if err != nil {
		return 0, fmt.Errorf("sftp: open %s: %w", remotePath, err)
	}
	defer src.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = src.Close()
		case <-done:
		}
	}()

	n, err := io.Copy(w, src)
	if err != nil {
		if ctx.Err() != nil {
			return n, fmt.Errorf("sftp: download %s: %w", remotePath, ctx.Err())
		}
		return n, fmt.Errorf("sftp: download %s: %w", remotePath, err)
	}
	return n, nil
}

func hostKeyCallback(cfg SFTPConfig) (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec
	}
	if cfg.KnownHostsFile == "" {
		return nil, errors.New("sftp: known hosts file required")
	}
	callback, err := knownhosts.New(cfg.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("sftp: load known hosts: %w", err)
	}
	return callback, nil
}
