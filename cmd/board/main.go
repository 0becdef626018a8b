package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"projectboard/internal/app"
	"projectboard/internal/config"
	"projectboard/internal/render"
	"projectboard/internal/store"
	"projectboard/internal/telemetry"
	"projectboard/internal/validate"
)

type cli struct {
	v *viper.Viper
	// store returns the board's store; the process singleton unless a test swaps it.
	store func() *store.Store
}

func main() {
	c := &cli{v: viper.New(), store: store.Instance}
	if err := c.rootCmd().Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "board",
		Short: "Project board CLI",
		Long: `Board collects project entries (title, description, people), validates them against
the rules in board.yml and shows them grouped as active or finished.
- Entries live only as long as the process: use 'board session' to add several.
- Every accepted entry re-renders both groups.
- Rules: title required; description at least 5 characters; people between 1 and 5 (editable in board.yml).`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.initConfig()
		},
	}
	c.addPersistentFlags(root)
	root.AddCommand(c.addCmd())
	root.AddCommand(c.sessionCmd())
	root.AddCommand(c.validateCmd())
	root.AddCommand(c.configCmd())
	return root
}

func (c *cli) initConfig() {
	c.v.SetEnvPrefix("BOARD")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
}

func (c *cli) addPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().StringP("workspace", "w", ".", "workspace directory holding board.yml")
	root.PersistentFlags().Bool("json", false, "output JSON")
	root.PersistentFlags().Bool("details", false, "show description and people in lists")
	root.PersistentFlags().BoolP("verbose", "v", false, "log to stderr")
	root.PersistentFlags().Bool("trace", false, "print trace spans to stderr")
	for _, name := range []string{"workspace", "json", "details", "verbose", "trace"} {
		_ = c.v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}
}

func (c *cli) addCmd() *cobra.Command {
	var raw app.RawInput
	var entries []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add entries and show the board",
		Long:  "Add one entry with --title/--description/--people, or several with repeated --entry 'title|description|people'. Rejected entries are reported and skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([]app.RawInput, 0, len(entries)+1)
			if cmd.Flags().Changed("title") || cmd.Flags().Changed("description") || cmd.Flags().Changed("people") {
				inputs = append(inputs, raw)
			}
			for _, e := range entries {
				in, err := parseEntry(e)
				if err != nil {
					return err
				}
				inputs = append(inputs, in)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("nothing to add; use --title/--description/--people or --entry")
			}
			out := cmd.OutOrStdout()
			return c.withBoard(cmd.Context(), func(ctx context.Context, b *app.Board) error {
				var rejected int
				for _, in := range inputs {
					if _, err := b.Collector.Submit(ctx, in); err != nil {
						if !errors.Is(err, app.ErrInvalidInput) {
							return err
						}
						rejected++
						fmt.Fprintf(cmd.ErrOrStderr(), "%q: %v\n", in.Title, err)
					}
				}
				if err := c.printBoard(out, b); err != nil {
					return err
				}
				if rejected > 0 {
					return fmt.Errorf("%d of %d entries rejected", rejected, len(inputs))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&raw.Title, "title", "", "title")
	cmd.Flags().StringVar(&raw.Description, "description", "", "description")
	cmd.Flags().StringVar(&raw.People, "people", "", "number of people")
	cmd.Flags().StringArrayVar(&entries, "entry", nil, "entry as 'title|description|people' (repeatable)")
	return cmd
}

func (c *cli) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Add entries interactively",
		Long:  "Prompts for title, description and people in a loop. At the title prompt, :list prints all records, :log prints the journal, :board redraws the lists and :quit exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(cmd.Context(), func(ctx context.Context, b *app.Board) error {
				return runSession(ctx, b, cmd.InOrStdin(), cmd.OutOrStdout(), c.v.GetBool("json"))
			})
		},
	}
	return cmd
}

func runSession(ctx context.Context, b *app.Board, in io.Reader, out io.Writer, asJSON bool) error {
	scanner := bufio.NewScanner(in)
	prompt := func(label string) (string, bool) {
		fmt.Fprintf(out, "%s: ", label)
		if !scanner.Scan() {
			return "", false
		}
		return scanner.Text(), true
	}
	for {
		title, ok := prompt("Title")
		if !ok {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		switch strings.TrimSpace(title) {
		case ":quit", ":q":
			return nil
		case ":list":
			printRecords(out, b.Store, asJSON)
			continue
		case ":log":
			evts, err := b.Events(ctx, 20)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			render.EventsTable(out, evts)
			continue
		case ":board":
			if err := b.Render(out); err != nil {
				return err
			}
			continue
		case ":help":
			fmt.Fprintln(out, "commands: :list :log :board :quit")
			continue
		}
		desc, ok := prompt("Description")
		if !ok {
			return scanner.Err()
		}
		people, ok := prompt("People")
		if !ok {
			return scanner.Err()
		}
		if _, err := b.Collector.Submit(ctx, app.RawInput{Title: title, Description: desc, People: people}); err != nil {
			if errors.Is(err, app.ErrInvalidInput) {
				fmt.Fprintln(out, err)
				continue
			}
			return err
		}
		if err := b.Render(out); err != nil {
			return err
		}
	}
}

func (c *cli) validateCmd() *cobra.Command {
	var value string
	var number, required bool
	var minLength, maxLength int
	var minVal, maxVal float64
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a value against constraints",
		Long:  "Prints true when --value passes every given constraint. Length bounds only apply to text and numeric bounds only to --number values.",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := validate.Spec{Value: validate.Text(value), Required: required}
			if number {
				spec.Value = validate.Number(app.ParsePeople(value))
			}
			flags := cmd.Flags()
			if flags.Changed("min-length") {
				spec.MinLength = validate.Int(minLength)
			}
			if flags.Changed("max-length") {
				spec.MaxLength = validate.Int(maxLength)
			}
			if flags.Changed("min") {
				spec.Min = validate.Float(minVal)
			}
			if flags.Changed("max") {
				spec.Max = validate.Float(maxVal)
			}
			violations := validate.Violations(spec)
			if c.v.GetBool("json") {
				if violations == nil {
					violations = []string{}
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"valid": len(violations) == 0, "violations": violations})
			}
			fmt.Fprintln(cmd.OutOrStdout(), validate.Validate(spec))
			return nil
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "value to check")
	cmd.Flags().BoolVar(&number, "number", false, "treat value as a number")
	cmd.Flags().BoolVar(&required, "required", false, "value must not be blank")
	cmd.Flags().IntVar(&minLength, "min-length", 0, "minimum text length")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "maximum text length")
	cmd.Flags().Float64Var(&minVal, "min", 0, "minimum number")
	cmd.Flags().Float64Var(&maxVal, "max", 0, "maximum number")
	return cmd
}

func (c *cli) configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Manage board.yml"}
	cfg.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadOptional(c.v.GetString("workspace"))
			if err != nil {
				return err
			}
			if c.v.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), loaded)
			}
			text, err := loaded.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	})
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default board.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(c.v.GetString("workspace"), force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing board.yml")
	cfg.AddCommand(initCmd)
	return cfg
}

// --- helpers ---

func (c *cli) withBoard(ctx context.Context, fn func(context.Context, *app.Board) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadOptional(c.v.GetString("workspace"))
	if err != nil {
		return err
	}
	logger := log.New(io.Discard, "board: ", log.LstdFlags)
	if c.v.GetBool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	shutdown, err := telemetry.Init(ctx, telemetry.Config{Stdout: c.v.GetBool("trace")})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Printf("trace shutdown: %v", err)
		}
	}()
	b, err := app.NewBoard(ctx, c.store(), app.BoardOptions{
		Config:  cfg,
		Logger:  logger,
		Details: c.v.GetBool("details"),
	})
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(ctx, b)
}

func (c *cli) printBoard(w io.Writer, b *app.Board) error {
	if c.v.GetBool("json") {
		return printJSON(w, b.Store.Records())
	}
	return b.Render(w)
}

func printRecords(w io.Writer, s *store.Store, asJSON bool) {
	if asJSON {
		_ = printJSON(w, s.Records())
		return
	}
	render.RecordsTable(w, s.Records())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseEntry(s string) (app.RawInput, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return app.RawInput{}, fmt.Errorf("invalid --entry %q; want 'title|description|people'", s)
	}
	return app.RawInput{Title: parts[0], Description: parts[1], People: parts[2]}, nil
}
