package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtracks/pkg/container"
	"github.com/matzehuels/seqtracks/pkg/manager"
	"github.com/matzehuels/seqtracks/pkg/surface"
)

// Output formats supported by render.
const (
	formatText = "text"
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

var formats = []string{formatText, formatJSON, formatDOT, formatSVG}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format     string // one of formats
	output     string // output file; stdout when empty
	width      int    // text line width
	expand     bool   // expand every leaf before rendering
	showHidden bool   // draw hidden tracks in text output
	noCache    bool   // bypass the response cache entirely
	refresh    bool   // refetch feeds but update the cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "render <accession>",
		Short: "Load tracks for an accession and write them out",
		Example: `  seqtracks render P05067
  seqtracks render P05067 --expand --width 140
  seqtracks render P05067 -f json -o P05067.json
  seqtracks render P05067 -f svg -o tree.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(formats, opts.format) {
				return fmt.Errorf("unknown format %q (want one of %s)", opts.format, strings.Join(formats, ", "))
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "text line width (default 100)")
	cmd.Flags().BoolVar(&opts.expand, "expand", false, "expand every track group")
	cmd.Flags().BoolVar(&opts.showHidden, "show-hidden", false, "draw hidden tracks in text output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch feeds, ignoring cached responses")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, accession string, opts renderOpts) error {
	mem, res, err := c.loadTracks(ctx, accession, loadOptions{noCache: opts.noCache, refresh: opts.refresh})
	if err != nil {
		return err
	}
	if opts.expand {
		expandAll(res, mem)
	}

	data, err := encode(ctx, mem, res.Accession, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSummary(res)
	printFile(opts.output)
	return nil
}

func encode(ctx context.Context, mem *surface.Memory, accession string, opts renderOpts) ([]byte, error) {
	switch opts.format {
	case formatJSON:
		var buf bytes.Buffer
		if err := surface.WriteJSON(&buf, mem, accession); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatDOT:
		return []byte(surface.ToDOT(mem, accession)), nil
	case formatSVG:
		return surface.RenderSVG(ctx, surface.ToDOT(mem, accession))
	default:
		return []byte(surface.RenderText(mem, surface.TextOptions{Width: opts.width, ShowHidden: opts.showHidden})), nil
	}
}

// loadTracks runs one load onto a fresh in-memory surface, showing the load
// state on a spinner.
func (c *CLI) loadTracks(ctx context.Context, accession string, opts loadOptions) (*surface.Memory, *manager.Result, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	spin := newSpinner(ctx, "loading "+accession)
	opts.onState = func(acc string, s manager.State) {
		spin.Update(fmt.Sprintf("%s: %s", acc, s))
	}
	rt, err := c.newRuntime(ctx, cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	defer rt.Close()

	prog := newProgress(c.Logger)
	mem := surface.NewMemory()
	spin.Start()
	res, err := rt.manager.Load(ctx, accession, mem)
	spin.Stop()
	if err != nil {
		return nil, nil, err
	}
	prog.done("Loaded " + res.Accession)
	return mem, res, nil
}

func expandAll(res *manager.Result, t container.Target) {
	for _, c := range res.Containers {
		for _, leaf := range container.Collect(c.Node) {
			if !leaf.Expanded() {
				leaf.Toggle(t)
			}
		}
	}
}
