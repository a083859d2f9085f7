package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/symgrep/internal/query"
	"github.com/mvp-joe/symgrep/internal/symbol"
)

var (
	modeFlag        string
	kindFlags       []string
	languageFlags   []string
	pathGlobFlag    string
	unqualifiedFlag bool
	limitFlag       int
	jsonSearchFlag  bool
	fuzzyFlag       bool
	membersFlag     bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [pattern]",
	Short: "Search the symbol index",
	Long: `Search matches a pattern against indexed symbol names. The match mode
is always explicit: exact, prefix, substring (the default), or regex.
Nothing is inferred from the pattern text.

By default both the plain name and the qualified name are consulted;
--unqualified restricts matching to the plain name. Regex mode always
evaluates the qualified name.

Examples:
  # Every symbol containing "widget"
  symgrep search widget

  # Exact lookup of a qualified name
  symgrep search --mode exact util::Widget::increment

  # Methods whose qualified name matches a regex, C++ only
  symgrep search --mode regex 'Widget::get[A-Z]' --kind method --language cpp

  # Symbols in one subtree
  symgrep search parse --path 'src/**'

  # Direct members of a scope
  symgrep search --members util::Widget

  # Ranked full-text match
  symgrep search --fuzzy "widget increment"
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Match mode: exact, prefix, substring, regex (default from config)")
	searchCmd.Flags().StringArrayVarP(&kindFlags, "kind", "k", nil, "Restrict to symbol kinds (repeatable)")
	searchCmd.Flags().StringArrayVarP(&languageFlags, "language", "l", nil, "Restrict to languages (repeatable)")
	searchCmd.Flags().StringVarP(&pathGlobFlag, "path", "p", "", "Restrict to files matching a glob")
	searchCmd.Flags().BoolVar(&unqualifiedFlag, "unqualified", false, "Match plain names only")
	searchCmd.Flags().IntVarP(&limitFlag, "limit", "n", -1, "Cap the result count (default from config)")
	searchCmd.Flags().BoolVar(&jsonSearchFlag, "json", false, "Print results as JSON")
	searchCmd.Flags().BoolVar(&fuzzyFlag, "fuzzy", false, "Ranked full-text match instead of a structural mode")
	searchCmd.Flags().BoolVar(&membersFlag, "members", false, "List the direct members of the scope named by the pattern")
}

func runSearch(cmd *cobra.Command, args []string) error {
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}
	if (membersFlag || fuzzyFlag) && pattern == "" {
		return fmt.Errorf("a pattern argument is required with --members and --fuzzy")
	}

	rootDir, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg, backend, ix, err := loadIndex(rootDir)
	if err != nil {
		return err
	}
	defer backend.Close()

	engine, err := query.New(ix)
	if err != nil {
		return err
	}

	limit := limitFlag
	if limit < 0 {
		limit = cfg.Query.Limit
	}

	var results []*symbol.Symbol
	switch {
	case membersFlag:
		results, err = engine.Members(pattern)
	case fuzzyFlag:
		ft, ftErr := query.NewFullText(ix)
		if ftErr != nil {
			return ftErr
		}
		defer ft.Close()
		results, err = ft.Search(pattern, limit)
	default:
		modeName := modeFlag
		if modeName == "" {
			modeName = cfg.Query.Mode
		}
		mode, modeErr := query.ParseMode(modeName)
		if modeErr != nil {
			return modeErr
		}
		kinds := make([]symbol.Kind, 0, len(kindFlags))
		for _, k := range kindFlags {
			kind, kindErr := symbol.ParseKind(k)
			if kindErr != nil {
				return kindErr
			}
			kinds = append(kinds, kind)
		}
		results, err = engine.Search(pattern, query.Options{
			Mode:        mode,
			Kinds:       kinds,
			Languages:   languageFlags,
			PathGlob:    pathGlobFlag,
			Unqualified: unqualifiedFlag,
			Limit:       limit,
		})
	}
	if err != nil {
		return err
	}

	if jsonSearchFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, sym := range results {
		printSymbol(sym)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "%d result(s)\n", len(results))
	}
	return nil
}

func printSymbol(sym *symbol.Symbol) {
	role := ""
	if sym.Role == symbol.RoleDeclaration {
		role = " (declaration)"
	}
	fmt.Printf("%s:%d:%d\t%s\t%s%s\n",
		sym.Path, sym.Span.StartLine, sym.Span.StartColumn,
		sym.Kind, sym.QualifiedName, role)
}
