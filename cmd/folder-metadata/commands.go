package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"folder-metadata/internal/common/config"
	"folder-metadata/internal/common/llm"
	"folder-metadata/internal/common/logger"
	"folder-metadata/internal/common/observability"
	generatemetadata "folder-metadata/internal/handlers/generate-metadata"
	"folder-metadata/internal/metadata"
	"folder-metadata/internal/models"
	"folder-metadata/internal/server"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromFile(o.configPath)
	}
	return config.Load()
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "folder-metadata",
		Short:        "Generate titles, descriptions and tags for folder trees with a chat model",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config YAML file (default: configs/config.yaml)")

	root.AddCommand(newServeCommand(opts), newGenerateCommand(opts))
	return root
}

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
			defer func() { _ = zapLog.Sync() }()
			log := logger.NewZapAdapter(zapLog)

			if cfg.Model.APIKey == "" {
				log.Warn("no model api key configured", map[string]interface{}{"baseUrl": cfg.Model.BaseURL})
			}

			obs := observability.New(cfg.App.Name)
			defer obs.Shutdown()

			invoker := llm.NewClient(cfg.Model.BaseURL, cfg.Model.APIKey, 0)
			handler := generatemetadata.NewHandler(generatemetadata.LoadConfig(cfg), invoker, log, obs)
			srv := server.New(cfg, handler, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutdown signal received", nil)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			log.Info("server stopped", nil)
			return <-errCh
		},
	}
}

type generateOptions struct {
	mode         string
	hint         string
	customPrompt string
	dir          string
	skipHidden   bool
	maxDepth     int
	pretty       bool
	output       string
	format       string
}

func newGenerateCommand(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [tree.json|-]",
		Short: "Generate metadata for one tree and print or export the record",
		Long: `Reads a folder tree (a bare tree or a {"tree": ...} request body) from a file
or stdin, or scans a local directory with --dir, and prints the normalized record.
With --output the record is exported to a file instead; a directory gets a file
named after the record title.`,
		Example: `  folder-metadata generate tree.json --mode files
  folder-metadata generate --dir ./photos --hint "holiday pictures"
  folder-metadata generate tree.json --mode files --format csv --output ./exports`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := models.ParseMode(opts.mode)
			if err != nil {
				return err
			}
			if opts.format != metadata.FormatJSON && opts.format != metadata.FormatCSV {
				return fmt.Errorf("unknown format %q: want json or csv", opts.format)
			}

			input, err := opts.readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			log := logger.NewStructured(cfg.Logging.Level, "console")
			defer func() { _ = log.Sync() }()

			invoker := llm.NewClient(cfg.Model.BaseURL, cfg.Model.APIKey, 0)
			handler := generatemetadata.NewHandler(generatemetadata.LoadConfig(cfg), invoker, log, nil)

			output, err := handler.Execute(cmd.Context(), mode, input)
			if err != nil {
				return err
			}
			if opts.output != "" {
				path, err := exportRecord(opts.output, output.Record, opts.format)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %s\n", path)
				return nil
			}
			if opts.format == metadata.FormatCSV {
				return metadata.Export(cmd.OutOrStdout(), output.Record, metadata.FormatCSV)
			}
			return writeRecord(cmd.OutOrStdout(), output.Record, opts.pretty)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.mode, "mode", "folder", "output shape: folder or files")
	flags.StringVar(&opts.hint, "hint", "", "free-text hint about the folder")
	flags.StringVar(&opts.customPrompt, "custom-prompt", "", "extra analysis guidance for the model")
	flags.StringVar(&opts.dir, "dir", "", "scan this local directory instead of reading a tree")
	flags.BoolVar(&opts.skipHidden, "skip-hidden", true, "skip dot files and folders when scanning --dir")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "folder depth limit when scanning --dir (0 = unlimited)")
	flags.BoolVar(&opts.pretty, "pretty", false, "indent the printed record")
	flags.StringVarP(&opts.output, "output", "o", "", "export to this file, or to <title>.<format> inside this directory")
	flags.StringVar(&opts.format, "format", metadata.FormatJSON, "export format: json or csv")
	return cmd
}

func (o *generateOptions) readInput(stdin io.Reader, args []string) (*generatemetadata.Input, error) {
	input := &generatemetadata.Input{Hint: o.hint, CustomPrompt: o.customPrompt}

	if o.dir != "" {
		if len(args) > 0 {
			return nil, errors.New("use either --dir or a tree file, not both")
		}
		tree, err := metadata.ScanDir(o.dir, metadata.ScanOptions{SkipHidden: o.skipHidden, MaxDepth: o.maxDepth})
		if err != nil {
			return nil, err
		}
		if input.Tree, err = json.Marshal(tree); err != nil {
			return nil, err
		}
		return input, nil
	}

	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}

	var body struct {
		Tree         json.RawMessage `json:"tree"`
		Hint         *string         `json:"hint"`
		CustomPrompt *string         `json:"customPrompt"`
	}
	if err := json.Unmarshal(data, &body); err == nil && len(body.Tree) > 0 {
		input.Tree = body.Tree
		if body.Hint != nil && input.Hint == "" {
			input.Hint = *body.Hint
		}
		if body.CustomPrompt != nil && input.CustomPrompt == "" {
			input.CustomPrompt = *body.CustomPrompt
		}
		return input, nil
	}

	if !json.Valid(data) {
		return nil, errors.New("tree input is not valid JSON")
	}
	input.Tree = bytes.TrimSpace(data)
	return input, nil
}

func writeRecord(w io.Writer, record json.RawMessage, pretty bool) error {
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, record, "", "  "); err != nil {
			return err
		}
		record = buf.Bytes()
	}
	_, err := fmt.Fprintf(w, "%s\n", record)
	return err
}

// exportRecord writes record to target. An existing directory, or a target
// ending in a path separator, receives a file named after the record title.
func exportRecord(target string, record json.RawMessage, format string) (string, error) {
	path := target
	info, err := os.Stat(target)
	switch {
	case err == nil && info.IsDir():
		path = filepath.Join(target, metadata.ExportFileName(record, format))
	case strings.HasSuffix(target, string(os.PathSeparator)) || strings.HasSuffix(target, "/"):
		if err := os.MkdirAll(target, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
		path = filepath.Join(target, metadata.ExportFileName(record, format))
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if err := metadata.Export(f, record, format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
