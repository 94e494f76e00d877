package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/law-makers/boxdiff/internal/ui"
	"github.com/law-makers/boxdiff/pkg/models"
)

// argHelp describes the positional arguments named in command Use lines
var argHelp = map[string]string{
	"user-a": "Letterboxd username whose ratings drive the comparison",
	"user-b": "Letterboxd username compared against",
}

// sortHelp lists the values --sort accepts, in display order
var sortHelp = []struct {
	key  models.SortKey
	desc string
}{
	{models.SortCombined, "mean of both ratings, highest first (default)"},
	{models.SortUserA, "user A's rating, highest first"},
	{models.SortUserB, "user B's rating, highest first"},
	{models.SortTitle, "title, A to Z"},
}

// helpFunc renders colorized help for boxdiff commands
func helpFunc(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\n%s%s%s\n", ui.ColorBold+ui.ColorCyan, strings.ToUpper(cmd.Name()), ui.ColorReset)
	if cmd.Short != "" {
		fmt.Fprintln(out, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(out, "\n%s\n", strings.TrimSpace(cmd.Long))
	}

	writeUsage(out, cmd)
	writeArguments(out, cmd)
	if cmd.LocalFlags().Lookup("sort") != nil {
		writeSortKeys(out)
	}
	writeExamples(out, cmd)
	writeCommands(out, cmd)

	if cmd.HasAvailableLocalFlags() {
		heading(out, "Flags")
		writeFlags(out, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		heading(out, "Global Flags")
		writeFlags(out, cmd.InheritedFlags())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, "\n%s\n", ui.Info(fmt.Sprintf("Use \"%s <command> --help\" for more information about a command.", cmd.CommandPath())))
	}
	fmt.Fprintln(out)
}

// usageFunc is the short form shown when arguments are wrong
func usageFunc(cmd *cobra.Command) error {
	out := cmd.ErrOrStderr()
	writeUsage(out, cmd)
	writeArguments(out, cmd)
	fmt.Fprintf(out, "\n%s\n", ui.Info(fmt.Sprintf("Use \"%s --help\" for more information.", cmd.CommandPath())))
	return nil
}

func heading(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s%s%s\n", ui.ColorBold+ui.ColorWhite, title, ui.ColorReset)
}

func writeUsage(out io.Writer, cmd *cobra.Command) {
	heading(out, "Usage")
	if cmd.Runnable() {
		fmt.Fprintf(out, "  %s%s%s\n", ui.ColorCyan, cmd.UseLine(), ui.ColorReset)
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, "  %s%s%s %s<command>%s %s[flags]%s\n",
			ui.ColorCyan, cmd.CommandPath(), ui.ColorReset,
			ui.ColorYellow, ui.ColorReset,
			ui.ColorDim, ui.ColorReset)
	}
}

// positionalArgs returns the <name> placeholders of a Use line
func positionalArgs(use string) []string {
	var names []string
	for _, field := range strings.Fields(use) {
		if strings.HasPrefix(field, "<") && strings.HasSuffix(field, ">") {
			names = append(names, strings.Trim(field, "<>"))
		}
	}
	return names
}

func writeArguments(out io.Writer, cmd *cobra.Command) {
	names := positionalArgs(cmd.Use)
	if len(names) == 0 {
		return
	}

	width := 0
	for _, n := range names {
		width = max(width, len(n)+2)
	}
	heading(out, "Arguments")
	for _, n := range names {
		fmt.Fprintf(out, "  %s%-*s%s  %s\n", ui.ColorYellow, width, "<"+n+">", ui.ColorReset, argHelp[n])
	}
}

func writeSortKeys(out io.Writer) {
	width := 0
	for _, s := range sortHelp {
		width = max(width, len(s.key))
	}
	heading(out, "Sort Keys")
	for _, s := range sortHelp {
		fmt.Fprintf(out, "  %s%-*s%s  %s\n", ui.ColorGreen, width, s.key, ui.ColorReset, ui.ColorDim+s.desc+ui.ColorReset)
	}
}

func writeExamples(out io.Writer, cmd *cobra.Command) {
	if !cmd.HasExample() {
		return
	}
	heading(out, "Examples")
	afterCommand := false
	for _, line := range strings.Split(cmd.Example, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "#"):
			if afterCommand {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "  %s%s%s\n", ui.ColorDim, line, ui.ColorReset)
			afterCommand = false
		default:
			fmt.Fprintf(out, "  %s$ %s%s\n", ui.ColorGreen, line, ui.ColorReset)
			afterCommand = true
		}
	}
}

func writeCommands(out io.Writer, cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}

	var subs []*cobra.Command
	width := 0
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() && c.Name() != "help" {
			subs = append(subs, c)
			width = max(width, len(c.Name()))
		}
	}
	heading(out, "Commands")
	for _, c := range subs {
		fmt.Fprintf(out, "  %s%-*s%s  %s%s%s\n",
			ui.ColorCyan, width, c.Name(), ui.ColorReset,
			ui.ColorDim, c.Short, ui.ColorReset)
	}
}

// writeFlags lists visible flags in aligned columns, straight from the
// flag set rather than from pflag's preformatted usage text
func writeFlags(out io.Writer, flags *pflag.FlagSet) {
	type row struct{ name, usage string }
	var rows []row
	width := 0

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "    --" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", --" + f.Name
		}
		varname, usage := pflag.UnquoteUsage(f)
		if varname != "" {
			name += " " + varname
		}
		switch f.DefValue {
		case "", "false", "0", "[]":
		default:
			usage += fmt.Sprintf(" (default %q)", f.DefValue)
		}
		rows = append(rows, row{name, usage})
		width = max(width, len(name))
	})

	for _, r := range rows {
		fmt.Fprintf(out, "  %s%-*s%s  %s%s%s\n",
			ui.ColorGreen, width, r.name, ui.ColorReset,
			ui.ColorDim, r.usage, ui.ColorReset)
	}
}
