// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Quill using the Cobra
// library. It defines the root command, subcommands (new, release, posts,
// history, sync, trust-host, backup), flags, and the entry point.

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/scriptorium/quill/internal/db"
	"github.com/scriptorium/quill/internal/i18n"
	"github.com/scriptorium/quill/internal/logging"
	"github.com/scriptorium/quill/internal/menu"
	"github.com/scriptorium/quill/internal/store"
	"github.com/scriptorium/quill/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev" // this will be set by the linker
var cfgFile string
var verbose bool

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()

	// Set defaults in viper. These are used if not set in the config file or by flags.
	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.dsn", "./quill.db")
	viper.SetDefault("language", "en")
	viper.SetDefault("author", "")
	viper.SetDefault("content.templates_dir", "./templates")
	viper.SetDefault("content.drafts_dir", "./drafts")
	viper.SetDefault("content.published_dir", "./published")
}

// newRootCmd creates and configures a new root cobra command. This function
// is used for the main application command as well as fresh instances for
// isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quill",
		Short: "Quill is a small blog drafting and publishing toolkit.",
		Long: `Quill keeps a blog's life cycle on the command line: drafts grow
from templates, get released with a stamped date, and sync to the web
host over SFTP. A local database keeps the release history and the
pinned host keys of sync targets.

Running without a subcommand starts an interactive session.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetVerbose(verbose)
			db.SetDebug(verbose)
			i18n.Init(viper.GetString("language"))
			dbType := viper.GetString("database.type")
			dsn := viper.GetString("database.dsn")
			if err := db.InitDB(dbType, dsn); err != nil {
				return fmt.Errorf("%s", i18n.T("config.error_init_db", err))
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			runSession()
		},
	}

	cmd.AddCommand(newCmd)
	cmd.AddCommand(releaseCmd)
	cmd.AddCommand(postsCmd)
	cmd.AddCommand(historyCmd)
	cmd.AddCommand(syncCmd)
	cmd.AddCommand(trustHostCmd)
	cmd.AddCommand(backupCmd)

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/quill.yaml or ./quill.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().String("db-type", "sqlite", "Database type (e.g., sqlite, postgres)")
	cmd.PersistentFlags().String("db-dsn", "./quill.db", "Database connection string (DSN)")
	cmd.PersistentFlags().String("lang", "en", `output language ("en", "de")`)

	viper.BindPFlag("database.type", cmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("database.dsn", cmd.PersistentFlags().Lookup("db-dsn"))
	viper.BindPFlag("language", cmd.PersistentFlags().Lookup("lang"))

	return cmd
}

// initConfig reads in a configuration file and environment variables. Viper
// searches for quill.yaml in the home and current directories; when nothing
// is found, a commented default config is written next to the caller.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("quill")
	}

	viper.SetEnvPrefix("QUILL")
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			const defaultConfigPath = "quill.yaml"
			defaultContent := `# Quill configuration file.
# This file is automatically generated with default values.

database:
  # The type of database to use. Supported values: "sqlite", "postgres", "mysql".
  # Note: PostgreSQL and MySQL support is experimental.
  type: sqlite

  # The Data Source Name (DSN) for the database connection.
  # For SQLite, this is the path to the database file.
  dsn: ./quill.db

# The output language. Supported: "en", "de".
language: en

# The author name substituted into new drafts.
author: ""

content:
  templates_dir: ./templates
  drafts_dir: ./drafts
  published_dir: ./published

# The sync target for 'quill sync'. Run 'quill trust-host' once before
# the first sync.
# remote:
#   host: blog.example.org
#   user: blog
#   path: /var/www/blog/posts
#   key_file: ~/.ssh/id_ed25519
`
			// If writing fails we just run with in-memory defaults.
			// i18n is not initialized this early, so the message stays English.
			if err := os.WriteFile(defaultConfigPath, []byte(defaultContent), 0644); err == nil {
				fmt.Println("No config file found. Created a default 'quill.yaml' in the current directory.")
			}
		}
	}
}

// newStore builds the content store from the configured directories.
func newStore() *store.Store {
	return store.New(
		viper.GetString("content.templates_dir"),
		viper.GetString("content.drafts_dir"),
		viper.GetString("content.published_dir"),
	)
}

// runSession is the interactive loop behind a bare 'quill' invocation.
func runSession() {
	for {
		fmt.Println(i18n.T("session.prompt"))
		choice, err := menu.Select([]string{
			i18n.T("session.action_new"),
			i18n.T("session.action_release"),
			i18n.T("session.action_browse"),
			i18n.T("session.action_quit"),
		})
		if err != nil {
			log.Fatalf("%v", err)
		}

		switch choice {
		case 0:
			if err := runNew(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case 1:
			if err := runRelease(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case 2:
			if err := runBrowse(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case 3:
			fmt.Println(i18n.T("session.goodbye"))
			return
		}
	}
}

// runBrowse opens the post browser over everything in the content store.
func runBrowse() error {
	posts, err := newStore().Posts()
	if err != nil {
		return err
	}
	return tui.Browse(posts)
}

// postsCmd represents the 'posts' command.
var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Browse drafts and published posts",
	Long:  `Opens an interactive browser over all drafts and published posts.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBrowse(); err != nil {
			log.Fatalf("%v", err)
		}
	},
}

// historyCmd represents the 'history' command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the release history",
	Long:  `Prints the recorded release log, newest first.`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		records, err := db.GetHistory(limit)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if len(records) == 0 {
			fmt.Println(i18n.T("history.empty"))
			return
		}
		for _, r := range records {
			fmt.Printf("%-20s  %-15s  %-30s  %s\n", r.Timestamp, r.Action, r.Slug, r.Details)
		}
	},
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum number of entries to show (0 = all)")
}
