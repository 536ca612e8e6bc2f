// Command todoctl manages todos on a tasktrack server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaekwang-park/tasktrack/internal/cliconfig"
	"github.com/jaekwang-park/tasktrack/internal/client"
	"github.com/jaekwang-park/tasktrack/internal/model"
	"github.com/jaekwang-park/tasktrack/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:          "todoctl",
	Short:        "Manage todos on a tasktrack server",
	SilenceUsage: true,
}

var (
	rootServer  string
	rootConfig  string
	rootNoColor bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootServer, "server", "", "API base URL including prefix (overrides $TODOCTL_SERVER and config)")
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "Config file (default ~/.config/todoctl/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&rootNoColor, "no-color", false, "Disable colored output")
}

func newClient() (*client.Client, error) {
	path := rootConfig
	if path == "" {
		var err error
		if path, err = cliconfig.DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := cliconfig.Load(path)
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Resolve(rootServer)
	if err != nil {
		return nil, err
	}
	return client.NewClient(settings.Server, client.WithTimeout(settings.Timeout)), nil
}

func styles() ui.Styles {
	return ui.NewStyles(!rootNoColor && ui.ColorEnabled(os.Stdout))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const fullIDLen = 36

// resolveID expands a unique id prefix to the full id. Full-length ids are
// passed through without a lookup.
func resolveID(ctx context.Context, c *client.Client, arg string) (string, error) {
	ids, err := resolveIDs(ctx, c, []string{arg})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// resolveIDs resolves every argument, listing at most once.
func resolveIDs(ctx context.Context, c *client.Client, args []string) ([]string, error) {
	ids := make([]string, 0, len(args))
	var index []model.Todo
	for _, arg := range args {
		arg = strings.ToLower(strings.TrimSpace(arg))
		if len(arg) >= fullIDLen {
			ids = append(ids, arg)
			continue
		}
		if index == nil {
			todos, err := c.List(ctx, model.TodoFilter{})
			if err != nil {
				return nil, err
			}
			index = todos
		}
		id, err := matchPrefix(index, arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func matchPrefix(todos []model.Todo, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty todo id")
	}
	var matches []string
	for _, t := range todos {
		if strings.HasPrefix(strings.ToLower(t.ID), prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no todo matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("todo id %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
