// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// backup.go dumps the database into a Zstandard-compressed JSON file.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/scriptorium/quill/internal/db"
	"github.com/scriptorium/quill/internal/i18n"
	"github.com/scriptorium/quill/internal/model"
	"github.com/spf13/cobra"
)

// backupCmd represents the 'backup' command.
var backupCmd = &cobra.Command{
	Use:   "backup [output-file]",
	Short: "Create a compressed (zstd) JSON backup of the database",
	Long: `Dumps the release history and pinned host keys into a single,
Zstandard-compressed JSON file.

If an output file is specified, '.zst' will be appended when missing.
Otherwise a default name 'quill-backup-YYYY-MM-DD.json.zst' is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var outputFile string
		if len(args) == 0 {
			outputFile = fmt.Sprintf("quill-backup-%s.json.zst", time.Now().Format("2006-01-02"))
		} else {
			outputFile = args[0]
			if !strings.HasSuffix(outputFile, ".zst") {
				outputFile += ".zst"
			}
		}

		data, err := collectBackup()
		if err != nil {
			log.Fatalf("%s", i18n.T("backup.error", err))
		}
		if err := writeCompressedBackup(outputFile, data); err != nil {
			log.Fatalf("%s", i18n.T("backup.error", err))
		}
		fmt.Println(i18n.T("backup.created", outputFile))
	},
}

// collectBackup gathers everything worth keeping from the database.
func collectBackup() (*model.BackupData, error) {
	releases, err := db.GetHistory(0)
	if err != nil {
		return nil, err
	}
	hosts, err := db.GetAllKnownHosts()
	if err != nil {
		return nil, err
	}
	return &model.BackupData{
		Version:    1,
		Releases:   releases,
		KnownHosts: hosts,
	}, nil
}

// writeCompressedBackup streams the JSON encoding straight into the zstd
// writer so large histories never sit in memory twice.
func writeCompressedBackup(filename string, data *model.BackupData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	defer func() { _ = zstdWriter.Close() }()

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	return nil
}

// readCompressedBackup is the inverse of writeCompressedBackup.
func readCompressedBackup(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var data model.BackupData
	if err := json.NewDecoder(zstdReader).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &data, nil
}
