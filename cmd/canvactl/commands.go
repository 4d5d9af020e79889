package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mickcarey/canva/internal/asset"
	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/editor"
	"github.com/mickcarey/canva/internal/export"
	"github.com/mickcarey/canva/internal/session"
	"github.com/mickcarey/canva/internal/typeid"
)

type globalFlags struct {
	assetDir string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:          "canvactl",
		Short:        "Create, edit and export design documents offline",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.assetDir, "asset-dir", "./data/assets", "directory for /assets/ image sources")
	root.PersistentFlags().DurationVar(&g.timeout, "image-timeout", asset.DefaultFetchTimeout, "timeout for remote image fetches")

	root.AddCommand(newNewCmd(), newExportCmd(&g), newApplyCmd(&g), newListCmd())
	return root
}

func (g *globalFlags) loader() *asset.Loader {
	return asset.NewLoader(g.assetDir, g.timeout, asset.DefaultMaxBytes)
}

func newNewCmd() *cobra.Command {
	var (
		width, height float64
		sample        bool
		out           string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Write an empty or sample design document",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := document.NewEmptySnapshot(typeid.NewObjectID(), width, height)
			if sample {
				snap = document.NewSampleSnapshot()
			}
			data, err := document.Marshal(snap)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, data)
		},
	}
	cmd.Flags().Float64Var(&width, "width", 900, "workspace width")
	cmd.Flags().Float64Var(&height, "height", 1200, "workspace height")
	cmd.Flags().BoolVar(&sample, "sample", false, "seed with the sample layout")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func newExportCmd(g *globalFlags) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export <design.json>",
		Short: "Render a design document to png, jpeg, svg, pdf or json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}

			c, area, err := export.FromSnapshot(cmd.Context(), snap, g.loader())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := export.Write(&buf, f, c, area); err != nil {
				return fmt.Errorf("export %s: %w", f, err)
			}
			return writeOutput(cmd, out, buf.Bytes())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format, defaults to the output file extension")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	return cmd
}

// newApplyCmd runs a script of editor commands, one JSON command per line,
// against a design document and writes the result.
func newApplyCmd(g *globalFlags) *cobra.Command {
	var (
		script string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "apply <design.json>",
		Short: "Apply editor commands to a design document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			ws, ok := snap.Workspace()
			if !ok {
				return fmt.Errorf("%s: %w", args[0], document.ErrInvalidSnapshot)
			}

			in, err := openInput(cmd, script)
			if err != nil {
				return err
			}
			defer in.Close()

			sess, err := session.New(cmd.Context(), "design_cli", snap, editor.Options{
				WorkspaceWidth:  ws.Width,
				WorkspaceHeight: ws.Height,
				Images:          g.loader(),
			}, func(_ string, n editor.Notice) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", n.Level, n.Message)
			})
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := runScript(cmd.Context(), sess, in); err != nil {
				return err
			}

			result, _ := sess.Snapshot()
			data, err := document.Marshal(result)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, data)
		},
	}
	cmd.Flags().StringVarP(&script, "script", "s", "-", "command script, - for stdin")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func runScript(ctx context.Context, sess *session.Session, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var c session.Command
		if err := json.Unmarshal([]byte(text), &c); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := sess.Dispatch(ctx, c); err != nil {
			return fmt.Errorf("line %d: %s: %w", line, c.Name, err)
		}
	}
	return sc.Err()
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the editor command names accepted by apply",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range session.Commands() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func readSnapshot(path string) (document.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Snapshot{}, fmt.Errorf("read design: %w", err)
	}
	return document.Unmarshal(data)
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	return f, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
