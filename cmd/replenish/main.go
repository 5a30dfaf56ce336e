package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vsinha/replenish/pkg/interfaces/cli/commands"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	ctx := context.Background()

	switch os.Args[1] {
	case "report":
		err = runReport(ctx, os.Args[2:])
	case "audit":
		err = runAudit(ctx, os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)

	// Command line flags
	var (
		configFile   = fs.String("config", "", "Path to YAML configuration file")
		scenarioDir  = fs.String("scenario", "", "Directory containing <branch>_<kind> input files")
		salesDir     = fs.String("sales", "", "Directory containing the sales master files")
		outputDir    = fs.String("output", ".", "Directory for a local copy of the report")
		format       = fs.String("format", "text", "Summary format: text, json")
		includeClean = fs.Bool("include-clean", false, "Add the cleaned inventory sheets")
		previewRows  = fs.Int("preview", 5, "Rows to preview per branch")
		noPublish    = fs.Bool("no-publish", false, "Skip uploading the report")
		verbose      = fs.Bool("verbose", false, "Enable verbose output")
		help         = fs.Bool("help", false, "Show help message")
	)

	files := commands.NewBranchFileFlags()
	files.Register(fs, commands.BranchCodes(args))

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Create command configuration
	config := commands.ReportConfig{
		ConfigFile:   *configFile,
		ScenarioDir:  *scenarioDir,
		Files:        files.Files(),
		SalesDir:     *salesDir,
		OutputDir:    *outputDir,
		Format:       *format,
		IncludeClean: *includeClean,
		PreviewRows:  *previewRows,
		NoPublish:    *noPublish,
		Verbose:      *verbose,
		Help:         *help,
	}
	return commands.NewReportCommand(config).Execute(ctx)
}

func runAudit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)

	var (
		configFile = fs.String("config", "", "Path to YAML configuration file")
		branch     = fs.String("branch", "", "Branch code")
		partID     = fs.String("part", "", "Part number to trace")
		salesDir   = fs.String("sales", "", "Directory containing the sales master files")
		showEvents = fs.Bool("events", false, "List every sale counted in the window")
		help       = fs.Bool("help", false, "Show help message")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	return commands.NewAuditCommand(commands.AuditConfig{
		ConfigFile: *configFile,
		Branch:     *branch,
		PartID:     *partID,
		SalesDir:   *salesDir,
		ShowEvents: *showEvents,
		Help:       *help,
	}).Execute(ctx)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: replenish <command> [options]

Commands:
    report    Build the two-branch purchasing workbook and publish it
    audit     Trace one part's hits and monthly average

Run "replenish <command> -help" for command options.`)
}
