package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tableheatmap/pkg/errors"
	"github.com/matzehuels/tableheatmap/pkg/settings"
)

// settingsCommand creates the settings command.
func (c *CLI) settingsCommand() *cobra.Command {
	var set []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "settings [object]",
		Short: "List settings, or show the effective values of one object",
		Long: `Without an argument, settings lists every property with its type and
default. With an object name (general, labels, dataPoint) it shows the
values in effect after the config file and --set overrides.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: settings.ObjectNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listProperties(asJSON)
			}
			objects, err := c.config().objects(set)
			if err != nil {
				return err
			}
			s, err := settings.Parse(objects)
			if err != nil {
				return err
			}
			return showObject(s, args[0], asJSON)
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "override a setting, e.g. --set labels.show=true (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func listProperties(asJSON bool) error {
	props := settings.Properties()
	if asJSON {
		return printJSON(props)
	}
	object := ""
	for _, p := range props {
		if p.Object != object {
			if object != "" {
				fmt.Fprintln(out)
			}
			object = p.Object
			fmt.Fprintln(out, StyleTitle.Render(object))
		}
		printKeyValue("  "+p.Name, fmt.Sprintf("%-7s %s", p.Kind, StyleDim.Render(fmt.Sprintf("default %v", p.Default))))
	}
	return nil
}

func showObject(s settings.Settings, object string, asJSON bool) error {
	instances := settings.Enumerate(s, object)
	if instances == nil {
		return errors.New(errors.ErrCodeNotFound, "unknown settings object %q (must be one of: %s)",
			object, strings.Join(settings.ObjectNames(), ", "))
	}
	if asJSON {
		return printJSON(instances)
	}
	for _, inst := range instances {
		fmt.Fprintln(out, StyleTitle.Render(inst.ObjectName))
		names := make([]string, 0, len(inst.Properties))
		for n := range inst.Properties {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			printKeyValue("  "+n, fmt.Sprint(inst.Properties[n]))
		}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
