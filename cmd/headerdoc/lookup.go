package main

import (
	"errors"
	"fmt"

	"headerdoc/internal/config"
	"headerdoc/internal/storage"

	"github.com/spf13/cobra"
)

func newLookupCmd(f *rootFlags) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "lookup [name]",
		Short: "Find documented symbols in the SQLite entry index",
		Long:  "Find documented symbols by name, or list every indexed entry of one header with --file.",
		Args: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (len(args) == 0) || len(args) > 1 {
				return errors.New("lookup expects exactly one of <name> or --file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := f.dbPath
			if dbPath == "" {
				cfg, err := config.LoadConfig(f.configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				dbPath = cfg.Artifacts.DB
			}
			if dbPath == "" {
				return errors.New("no index database: pass --db or set artifacts.db")
			}

			store, err := storage.NewSQLiteStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			var records []*storage.Record
			if file != "" {
				records, err = store.FindByFile(cmd.Context(), file)
				if err == nil && len(records) == 0 {
					err = fmt.Errorf("no documented entries for %s", file)
				}
			} else {
				records, err = store.FindByName(cmd.Context(), args[0])
				if err == nil && len(records) == 0 {
					err = fmt.Errorf("no documented symbol named %q", args[0])
				}
			}
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\t%s\t%s\n", r.File, r.Line, r.Kind, r.Declaration)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "List the entries of this header as it was indexed")
	return cmd
}
