// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// remote.go holds the commands that talk to the sync target: uploading
// published posts and trusting a host's key for the first time.

package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/scriptorium/quill/internal/db"
	"github.com/scriptorium/quill/internal/deploy"
	"github.com/scriptorium/quill/internal/i18n"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/ssh"
)

// syncCmd represents the 'sync' command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload published posts to the remote host",
	Long: `Connects to the configured remote host over SFTP and uploads every
published post. Each file is written under a temporary name and renamed
into place. The host key must have been trusted with 'quill trust-host'.`,
	Run: func(cmd *cobra.Command, args []string) {
		host := viper.GetString("remote.host")
		user := viper.GetString("remote.user")
		remotePath := viper.GetString("remote.path")
		keyFile := viper.GetString("remote.key_file")
		if host == "" || user == "" || remotePath == "" {
			log.Fatalf("%s", i18n.T("sync.error_no_remote"))
		}

		s := newStore()
		published, err := s.ListPublished()
		if err != nil {
			log.Fatalf("%v", err)
		}
		if len(published) == 0 {
			log.Fatalf("%s", i18n.T("sync.error_none", s.PublishedDir))
		}

		fmt.Println(i18n.T("sync.start", len(published), host))
		publisher, err := deploy.NewPublisher(host, user, keyFile)
		if err != nil {
			_ = db.LogRelease("SYNC_FAIL", "", fmt.Sprintf("host: %s, error: %v", host, err))
			log.Fatalf("%s", i18n.T("sync.error_connect", host, err))
		}
		defer publisher.Close()

		uploaded, err := publisher.UploadPosts(s.PublishedDir, remotePath)
		for _, name := range uploaded {
			fmt.Println(i18n.T("sync.uploaded", name))
		}
		if err != nil {
			_ = db.LogRelease("SYNC_FAIL", "", fmt.Sprintf("host: %s, error: %v", host, err))
			log.Fatalf("%s", i18n.T("sync.error_upload", host, err))
		}

		_ = db.LogRelease("SYNC_SUCCESS", "", fmt.Sprintf("host: %s, files: %d", host, len(uploaded)))
		fmt.Println(i18n.T("sync.done"))
	},
}

// trustHostCmd represents the 'trust-host' command. It fetches the remote
// host's public key, shows its fingerprint, and pins it after confirmation.
var trustHostCmd = &cobra.Command{
	Use:   "trust-host [host]",
	Short: "Pin a host's public key",
	Long: `Connects to a host for the first time, retrieves its public key, and
prompts before saving it to the database. 'quill sync' refuses to talk
to hosts whose keys have not been pinned. With no argument the
configured remote.host is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var hostname string
		if len(args) > 0 {
			hostname = args[0]
			// Accept the user@host form too.
			if i := strings.LastIndex(hostname, "@"); i >= 0 {
				hostname = hostname[i+1:]
			}
		} else {
			hostname = viper.GetString("remote.host")
		}
		if hostname == "" {
			log.Fatalf("%s", i18n.T("sync.error_no_remote"))
		}

		fmt.Println(i18n.T("trust_host.retrieving_key", hostname))
		key, err := deploy.GetRemoteHostKey(hostname)
		if err != nil {
			log.Fatalf("%s", i18n.T("trust_host.error_get_key", err))
		}

		fingerprint := ssh.FingerprintSHA256(key)
		fmt.Println()
		fmt.Println(i18n.T("trust_host.authenticity", hostname))
		fmt.Println(i18n.T("trust_host.fingerprint", key.Type(), fingerprint))

		answer, err := promptLine(i18n.T("trust_host.confirm_prompt"))
		if err != nil || strings.ToLower(answer) != "yes" {
			fmt.Println(i18n.T("trust_host.aborted"))
			os.Exit(1)
		}

		keyStr := string(ssh.MarshalAuthorizedKey(key))
		if err := db.AddKnownHostKey(hostname, keyStr); err != nil {
			log.Fatalf("%s", i18n.T("trust_host.error_save_key", err))
		}

		_ = db.LogRelease("TRUST_HOST", "", fmt.Sprintf("host: %s, type: %s", hostname, key.Type()))
		fmt.Println(i18n.T("trust_host.added", hostname, key.Type()))
	},
}
