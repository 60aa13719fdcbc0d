package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/go-drift/maps/cmd/driftmaps/internal/config"
	"github.com/go-drift/maps/cmd/driftmaps/internal/scene"
	"github.com/go-drift/maps/cmd/driftmaps/internal/ui"
	"github.com/go-drift/maps/pkg/errors"
	"github.com/go-drift/maps/pkg/maps"
	"github.com/go-drift/maps/pkg/platform"
)

type replayOptions struct {
	bitmapDiff bool
	fail       []string
}

func newReplayCmd(flags *globalFlags) *cobra.Command {
	opts := &replayOptions{}
	c := &cobra.Command{
		Use:   "replay <scene.yaml>",
		Short: "Replay a marker scene and print the channel calls",
		Long: `Replay mounts, updates and unmounts markers as listed in a scene file.
Every call the markers make on the "drift/maps" channel is printed.

Examples:
  driftmaps replay scene.yaml
  driftmaps replay --fail setPosition scene.yaml   # first setPosition fails`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, opts, args[0])
		},
	}
	c.Flags().BoolVar(&opts.bitmapDiff, "bitmap-diff", false, "Re-icon markers when only the bitmap URL changes")
	c.Flags().StringSliceVar(&opts.fail, "fail", nil, "Fail the first call of each listed channel method")
	return c
}

func runReplay(stdout, stderr io.Writer, flags *globalFlags, opts *replayOptions, path string) error {
	cfg, err := config.Resolve(flags.configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	sc, err := scene.Load(path)
	if err != nil {
		return err
	}

	logOut := stderr
	if cfg.LogFile != "" {
		logFile := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    1, // megabytes
			MaxBackups: 2,
			MaxAge:     30, // days
		}
		defer logFile.Close()
		logOut = logFile
	}
	errors.SetHandler(&errors.LogHandler{Verbose: flags.verbose || cfg.Verbose, Out: logOut})
	defer errors.SetHandler(nil)

	platform.SetNativeBridge(newTraceBridge(stdout, opts.fail))
	platform.RegisterDispatch(func(cb func()) { cb() })
	defer func() {
		platform.SetNativeBridge(nil)
		platform.RegisterDispatch(nil)
	}()

	engine := platform.NewMapEngine(cfg.MapID)
	defer engine.Close()

	var controllerOpts []maps.ControllerOption
	if opts.bitmapDiff || cfg.BitmapDiff {
		controllerOpts = append(controllerOpts, maps.WithBitmapDiff())
	}

	player := scene.NewPlayer(engine, controllerOpts...)
	player.OnStep = func(r scene.Result) {
		printResult(stdout, r)
	}

	failed := player.Play(sc)
	fmt.Fprintln(stdout, ui.Muted(fmt.Sprintf("%d markers on map %d", engine.MarkerCount(), engine.MapID())))
	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(sc.Steps))
	}
	fmt.Fprintln(stdout, ui.SuccessMsg("replayed %d steps", len(sc.Steps)))
	return nil
}

func printResult(w io.Writer, r scene.Result) {
	label := fmt.Sprintf("[%d] %s", r.Index, r.Step)
	switch {
	case r.Err != nil:
		fmt.Fprintln(w, ui.ErrorMsg("%s: %v", label, r.Err))
	case r.Step.Marker == "":
		fmt.Fprintln(w, ui.Bold(label))
	default:
		fmt.Fprintln(w, ui.Bold(label)+" "+ui.Accent(r.State.String()))
	}
}

// traceBridge is a NativeBridge that prints every call instead of reaching
// a native map.
type traceBridge struct {
	out io.Writer

	mu   sync.Mutex
	fail map[string]bool // methods whose next call fails
}

func newTraceBridge(out io.Writer, fail []string) *traceBridge {
	b := &traceBridge{out: out, fail: make(map[string]bool)}
	for _, m := range fail {
		b.fail[m] = true
	}
	return b
}

func (b *traceBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	decoded, err := platform.DefaultCodec.Decode(args)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	fmt.Fprintln(b.out, ui.Call(method, flatten("", decoded)))
	if b.fail[method] {
		delete(b.fail, method)
		fmt.Fprintln(b.out, "  "+ui.WarnMsg("injected failure on %s", channel))
		return nil, platform.NewChannelError("injected", method+" failed")
	}
	return nil, nil
}

// flatten turns decoded JSON into sorted key=value pairs. Nested objects
// use dotted keys.
func flatten(prefix string, v any) []string {
	obj, ok := v.(map[string]any)
	if !ok {
		if prefix == "" {
			return nil
		}
		return []string{prefix + "=" + formatValue(v)}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		pairs = append(pairs, flatten(key, obj[k])...)
	}
	return pairs
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
