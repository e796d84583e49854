// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// package deploy uploads published posts to the remote web host over
// SFTP. Host keys are pinned in the quill database; authentication uses a
// configured private key with an SSH agent fallback.
package deploy // import "github.com/scriptorium/quill/internal/deploy"

import (
	"fmt"
	"net"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"github.com/scriptorium/quill/internal/db"
	"github.com/scriptorium/quill/internal/logging"
	"golang.org/x/crypto/ssh"
)

// Publisher holds an open connection to the sync target.
type Publisher struct {
	client *ssh.Client
	sftp   *sftp.Client
}

// hostKeyCallback verifies the presented key against the pinned one in the
// database. First contact is rejected with a pointer to 'quill trust-host'.
func hostKeyCallback(hostname string, remote net.Addr, key ssh.PublicKey) error {
	host, _, err := net.SplitHostPort(hostname)
	if err != nil {
		host = hostname
	}

	presentedKey := string(ssh.MarshalAuthorizedKey(key))

	knownKey, err := db.GetKnownHostKey(host)
	if err != nil {
		return fmt.Errorf("failed to query known_hosts database: %w", err)
	}
	if knownKey == "" {
		return fmt.Errorf("unknown host key for %s. run 'quill trust-host' to add it", host)
	}
	if knownKey != presentedKey {
		return fmt.Errorf("!!! HOST KEY MISMATCH FOR %s !!!\nRemote key presented: %s\nThis could be a man-in-the-middle attack", host, presentedKey)
	}
	return nil
}

// ensureHostPort appends the default SSH port when none is given.
func ensureHostPort(host string) string {
	if _, _, err := net.SplitHostPort(host); err != nil {
		return net.JoinHostPort(host, "22")
	}
	return host
}

// NewPublisher connects to the sync target. When keyFile is set it is
// tried first; the SSH agent is the fallback.
func NewPublisher(host, user, keyFile string) (*Publisher, error) {
	addr := ensureHostPort(host)

	var authErr error
	if keyFile != "" {
		pem, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read private key %s: %w", keyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("unable to parse private key %s: %w", keyFile, err)
		}

		config := &ssh.ClientConfig{
			User:            user,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: hostKeyCallback,
			Timeout:         10 * time.Second,
		}
		client, err := ssh.Dial("tcp", addr, config)
		if err == nil {
			return newPublisher(client)
		}
		if !strings.Contains(err.Error(), "unable to authenticate") {
			return nil, fmt.Errorf("connection with configured key failed: %w", err)
		}
		authErr = err
	}

	agentClient := getSSHAgent()
	if agentClient == nil {
		if authErr != nil {
			return nil, fmt.Errorf("key authentication failed, and no SSH agent available for fallback: %w", authErr)
		}
		return nil, fmt.Errorf("no authentication method available (no key file configured and no ssh agent found)")
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeysCallback(agentClient.Signers)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("connection with ssh agent failed: %w", err)
	}
	return newPublisher(client)
}

func newPublisher(client *ssh.Client) (*Publisher, error) {
	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create sftp client: %w", err)
	}
	return &Publisher{client: client, sftp: sftpClient}, nil
}

// UploadPosts copies every Markdown file from localDir into remoteDir and
// returns the uploaded file names. Each file lands under a temporary name
// and is renamed into place, so readers never see a half-written post.
func (p *Publisher) UploadPosts(localDir, remoteDir string) ([]string, error) {
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", localDir, err)
	}

	_ = p.sftp.MkdirAll(remoteDir) // Ignore error if it already exists.

	var uploaded []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		if err := p.uploadFile(filepath.Join(localDir, e.Name()), remoteDir, e.Name()); err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, e.Name())
	}
	sort.Strings(uploaded)
	return uploaded, nil
}

func (p *Publisher) uploadFile(localPath, remoteDir, name string) error {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	tmpPath := path.Join(remoteDir, fmt.Sprintf(".%s.quill.%d", name, time.Now().UnixNano()))
	f, err := p.sftp.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file on remote: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		_ = p.sftp.Remove(tmpPath)
		return fmt.Errorf("failed to write to temporary file on remote: %w", err)
	}
	f.Close()

	if err := p.sftp.Chmod(tmpPath, 0o644); err != nil {
		_ = p.sftp.Remove(tmpPath)
		return fmt.Errorf("failed to chmod temporary file: %w", err)
	}

	finalPath := path.Join(remoteDir, name)
	// Rename over an existing post is not atomic on every SFTP server;
	// remove the target first and accept the tiny window.
	_ = p.sftp.Remove(finalPath)
	if err := p.sftp.Rename(tmpPath, finalPath); err != nil {
		_ = p.sftp.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	logging.Debugf("deploy: uploaded %s -> %s", localPath, finalPath)
	return nil
}

// Close closes the underlying SSH and SFTP clients.
func (p *Publisher) Close() {
	if p.sftp != nil {
		p.sftp.Close()
	}
	if p.client != nil {
		p.client.Close()
	}
}

// GetRemoteHostKey connects to a host just to retrieve its public key.
func GetRemoteHostKey(host string) (ssh.PublicKey, error) {
	keyChan := make(chan ssh.PublicKey, 1)

	config := &ssh.ClientConfig{
		// No authentication needed, just start the handshake.
		User: "quill-probe",
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			keyChan <- key
			// Return a specific error to gracefully stop the handshake.
			return fmt.Errorf("quill: successfully retrieved host key")
		},
		Timeout: 5 * time.Second,
	}

	_, err := ssh.Dial("tcp", ensureHostPort(host), config)
	if err != nil {
		if strings.Contains(err.Error(), "quill: successfully retrieved host key") {
			return <-keyChan, nil
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", host, err)
	}

	return nil, fmt.Errorf("ssh.Dial succeeded unexpectedly, could not retrieve key")
}
