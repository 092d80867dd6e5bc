package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/go-textconv/convert"
	"github.com/pstuifzand/go-textconv/document"
)

// parseParamFlags turns repeated key=value flags into tool Params
func parseParamFlags(values []string) (Params, error) {
	if len(values) == 0 {
		return nil, nil
	}

	params := make(Params, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: want key=value", v)
		}
		params[key] = value
	}
	return params, nil
}

// readInput reads the named file, or stdin when name is empty or "-"
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func newConvertCmd(opts *cliOptions) *cobra.Command {
	var (
		paramFlags []string
		lineBased  bool
		showStats  bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "convert <tool> [file]",
		Short: "Run one tool on a file or stdin",
		Long: `Runs a conversion tool on the contents of file, or stdin when no file
is given, and writes the result to stdout.

Examples:
  echo "72 101 108 108 111" | textconv convert decimal-to-ascii
  textconv convert ordered-list -p marker_style=roman-upper list.txt
  textconv convert text-to-html -p mode=paragraphs --format html notes.txt`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, ok := FindOperation(args[0])
			if !ok {
				msg := fmt.Sprintf("%v: %s", ErrUnknownTool, args[0])
				if suggestions := suggestTools(args[0]); len(suggestions) > 0 {
					msg += " (did you mean " + strings.Join(suggestions, ", ") + "?)"
				}
				return errors.New(msg)
			}

			params, err := parseParamFlags(paramFlags)
			if err != nil {
				return err
			}

			var name string
			if len(args) > 1 {
				name = args[1]
			}
			data, err := readInput(cmd, name)
			if err != nil {
				return err
			}

			out, err := ProcessTextWithMode(string(data), op.Name, params, lineBased)
			if err != nil {
				return err
			}

			exporter, err := document.ExporterFor(format)
			if err != nil {
				return err
			}
			if h, ok := exporter.(document.HTMLExporter); ok {
				h.Mode = convert.HTMLPre
				h.Markup = op.Name == "text-to-html"
				exporter = h
			}
			rendered, err := exporter.Export(cmd.Context(), out.Text)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(rendered); err != nil {
				return err
			}

			if showStats {
				NewREPLFormatter(cmd.ErrOrStderr(), colorEnabled(opts.cfg.REPL.Color, os.Stderr)).PrintStats(out.Stats)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil, "tool parameter as key=value (repeatable)")
	cmd.Flags().BoolVarP(&lineBased, "line-based", "l", false, "apply the tool to every line separately")
	cmd.Flags().BoolVarP(&showStats, "stats", "s", false, "print statistics to stderr")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or html")
	return cmd
}

func newToolsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tools [query]",
		Short: "List the available tools",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := newREPLSession(NewTextConvCore(), nil,
				NewREPLFormatter(cmd.OutOrStdout(), colorEnabled(opts.cfg.REPL.Color, os.Stdout)))
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return rs.handleTools(&REPLCommand{Verb: "tools", Object: query})
		},
	}
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	var (
		socketPath string
		withHTTP   bool
		httpAddr   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a session over a Unix socket, and optionally the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if socketPath != "" {
				cfg.Socket.Path = socketPath
			}
			if httpAddr != "" {
				cfg.HTTP.Addr = httpAddr
				withHTTP = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := NewSocketServer(cfg.Socket.Path, NewTextConvCore())
			server.SetUpdateCallback(logCommand)
			if err := server.Start(); err != nil {
				return err
			}

			httpErr := make(chan error, 1)
			if withHTTP {
				go func() {
					err := NewHTTPServer(cfg.HTTP).Run(ctx)
					if err != nil {
						log.Errorf("http server: %v", err)
						server.Stop()
					}
					httpErr <- err
				}()
			}

			go func() {
				<-ctx.Done()
				server.Stop()
			}()

			server.Wait()
			stop()
			log.Infof("socket server stopped")

			if withHTTP {
				return <-httpErr
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&socketPath, "socket", "", "Unix socket path (default from config)")
	cmd.Flags().BoolVar(&withHTTP, "http", false, "also serve the HTTP API")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address, implies --http")
	return cmd
}

// logCommand records every command a socket client runs
func logCommand(action string, success bool) {
	if success {
		log.Debugf("command %s done", action)
		return
	}
	log.Infof("command %s failed", action)
}

func newREPLCmd(opts *cliOptions) *cobra.Command {
	var (
		socketPath string
		local      bool
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive session against a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if local {
				return NewLocalREPLSession(NewTextConvCore(), cfg.REPL).Run()
			}

			if socketPath == "" {
				socketPath = cfg.Socket.Path
			}
			session, err := NewREPLSession(socketPath, cfg.REPL)
			if err != nil {
				return fmt.Errorf("%w (start one with 'textconv serve' or use --local)", err)
			}
			return session.Run()
		},
	}

	cmd.Flags().StringVar(&socketPath, "socket", "", "Unix socket path (default from config)")
	cmd.Flags().BoolVar(&local, "local", false, "run an in-process session instead of connecting")
	return cmd
}

func newExtractCmd(opts *cliOptions) *cobra.Command {
	var (
		contentType string
		format      string
		title       string
	)

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract plain text from a document",
		Long: `Extracts the text of a plain text or HTML document. The format is taken
from the file extension, --content-type or the content itself.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			data, err := readInput(cmd, name)
			if err != nil {
				return err
			}

			text, err := document.ForContent(name, contentType, data).ExtractText(cmd.Context(), data)
			if err != nil {
				return err
			}

			exporter, err := document.ExporterFor(format)
			if err != nil {
				return err
			}
			if h, ok := exporter.(document.HTMLExporter); ok {
				h.Title = title
				exporter = h
			}
			rendered, err := exporter.Export(cmd.Context(), text)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "content type of the input, e.g. \"text/html; charset=iso-8859-1\"")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or html")
	cmd.Flags().StringVar(&title, "title", "", "document title for html output")
	return cmd
}
