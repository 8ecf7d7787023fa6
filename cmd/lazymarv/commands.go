package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configFile string
	serverURL  string
	logLevel   string

	filterToken   string
	sortColumn    string
	sortDesc      bool
	outputFormat  string
	removeTag     bool
	detailQuery   string
	detailPaths   bool
	fileURLs      bool
	filePatterns  []string
	assumeYes     bool
	savedDesc     string
	savedTags     []string
	historySearch string
	historyLimit  int
	historyClear  bool
	listenAddr    string

	rootCmd = &cobra.Command{
		Use:   "lazymarv",
		Short: "A terminal UI for browsing and tagging marv filesets",
		Long: `lazymarv browses the fileset listing of a marv server, builds filters,
and tags or comments many filesets at once.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadConfig()
			setupLogging()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLogging()
		},
		RunE: runTUI, // Defined in cmd_tui.go
	}

	// --- Filter tokens ---
	filterCmd = &cobra.Command{
		Use:   "filter",
		Short: "Encode, decode and describe filter tokens",
	}
	filterEncodeCmd = &cobra.Command{
		Use:   "encode [json]",
		Short: "Encode a filter JSON (argument or stdin) into a token",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFilterEncode, // Defined in cmd_filter.go
	}
	filterDecodeCmd = &cobra.Command{
		Use:   "decode [token]",
		Short: "Print the indented JSON of a token",
		Args:  cobra.ExactArgs(1),
		RunE:  runFilterDecode, // Defined in cmd_filter.go
	}
	filterDescribeCmd = &cobra.Command{
		Use:   "describe [token]",
		Short: "Print a readable form of a token",
		Args:  cobra.ExactArgs(1),
		RunE:  runFilterDescribe, // Defined in cmd_filter.go
	}

	// --- Filesets ---
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the filesets matching a filter",
		Args:  cobra.NoArgs,
		RunE:  runList, // Defined in cmd_fileset.go
	}
	tagCmd = &cobra.Command{
		Use:   "tag [label] [fileset-id...]",
		Short: "Add a tag to (or with --remove, remove it from) filesets",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runTag, // Defined in cmd_fileset.go
	}
	commentCmd = &cobra.Command{
		Use:   "comment [text] [fileset-id...]",
		Short: "Comment on filesets",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runComment, // Defined in cmd_fileset.go
	}
	detailCmd = &cobra.Command{
		Use:   "detail [fileset-id]",
		Short: "Print the detail record of a fileset",
		Args:  cobra.ExactArgs(1),
		RunE:  runDetail, // Defined in cmd_fileset.go
	}
	filesCmd = &cobra.Command{
		Use:   "files [fileset-id...]",
		Short: "Print the files of filesets as file:// paths or download URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFiles, // Defined in cmd_fileset.go
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [fileset-id]",
		Short: "DANGER: Delete a fileset and its files",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete, // Defined in cmd_fileset.go
	}

	// --- Saved filters and history ---
	savedCmd = &cobra.Command{
		Use:   "saved",
		Short: "Manage saved filters",
	}
	savedListCmd = &cobra.Command{
		Use:   "list",
		Short: "List saved filters",
		Args:  cobra.NoArgs,
		RunE:  runSavedList, // Defined in cmd_local.go
	}
	savedAddCmd = &cobra.Command{
		Use:   "add [name] [token]",
		Short: "Save a filter token under a name",
		Args:  cobra.ExactArgs(2),
		RunE:  runSavedAdd, // Defined in cmd_local.go
	}
	savedRemoveCmd = &cobra.Command{
		Use:     "rm [name-or-id]",
		Short:   "Delete a saved filter",
		Aliases: []string{"remove"},
		Args:    cobra.ExactArgs(1),
		RunE:    runSavedRemove, // Defined in cmd_local.go
	}
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show recently applied filters",
		Args:  cobra.NoArgs,
		RunE:  runHistory, // Defined in cmd_local.go
	}

	// --- Development ---
	serveFixtureCmd = &cobra.Command{
		Use:   "serve-fixture",
		Short: "Serve an in-memory marv backend with sample filesets",
		Args:  cobra.NoArgs,
		RunE:  runServeFixture, // Defined in cmd_local.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: <user config dir>/lazymarv/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "marv server URL, overrides server.url")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.Flags().StringVarP(&filterToken, "filter", "f", "", "filter token applied on startup")

	filterCmd.AddCommand(filterEncodeCmd, filterDecodeCmd, filterDescribeCmd)

	listCmd.Flags().StringVarP(&filterToken, "filter", "f", "", "filter token, or the name of a saved filter")
	listCmd.Flags().StringVar(&sortColumn, "sort", "", "column name to sort by")
	listCmd.Flags().BoolVar(&sortDesc, "desc", false, "sort descending")
	listCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, csv or json")

	tagCmd.Flags().BoolVar(&removeTag, "remove", false, "remove the tag instead of adding it")

	detailCmd.Flags().StringVarP(&detailQuery, "query", "q", "", "JSONPath evaluated against the detail record")
	detailCmd.Flags().BoolVar(&detailPaths, "paths", false, "list the JSON paths of the detail record")

	filesCmd.Flags().BoolVar(&fileURLs, "urls", false, "print download URLs instead of file:// paths")
	filesCmd.Flags().StringArrayVarP(&filePatterns, "include", "i", nil, "glob pattern a file name or path must match (repeatable)")

	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	savedAddCmd.Flags().StringVarP(&savedDesc, "description", "d", "", "description (default: the described filter)")
	savedAddCmd.Flags().StringSliceVarP(&savedTags, "tag", "t", nil, "tags of the saved filter")
	savedCmd.AddCommand(savedListCmd, savedAddCmd, savedRemoveCmd)

	historyCmd.Flags().StringVar(&historySearch, "search", "", "only entries whose token or description contains this")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete the whole history")

	serveFixtureCmd.Flags().StringVar(&listenAddr, "addr", "127.0.0.1:8000", "listen address")

	rootCmd.AddCommand(
		filterCmd,
		listCmd,
		tagCmd,
		commentCmd,
		detailCmd,
		filesCmd,
		deleteCmd,
		savedCmd,
		historyCmd,
		serveFixtureCmd,
	)
}
