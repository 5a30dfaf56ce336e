package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vsinha/replenish/pkg/application/services/sales"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/infrastructure/config"
	"github.com/vsinha/replenish/pkg/infrastructure/logging"
	"github.com/vsinha/replenish/pkg/infrastructure/repositories/spreadsheet"
	"github.com/vsinha/replenish/pkg/interfaces/cli/output"
)

// AuditConfig holds configuration for the audit command
type AuditConfig struct {
	ConfigFile string
	Branch     string
	PartID     string
	SalesDir   string
	ShowEvents bool
	Help       bool

	// Stdout receives the trace; nil means os.Stdout
	Stdout io.Writer
}

// AuditCommand traces one part's hits and average through the sales masters
type AuditCommand struct {
	config AuditConfig
	now    func() time.Time
}

// NewAuditCommand creates a new audit command with the given configuration
func NewAuditCommand(config AuditConfig) *AuditCommand {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	return &AuditCommand{config: config, now: time.Now}
}

// Execute runs the audit command
func (c *AuditCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	cfg, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.config.SalesDir != "" {
		cfg.Sales.Dir = c.config.SalesDir
	}

	branch, ok := cfg.FindBranch(c.config.Branch)
	if !ok {
		return fmt.Errorf("validation error: unknown branch %q", c.config.Branch)
	}
	partID := entities.NormalizePartID(c.config.PartID)
	if partID == "" {
		return fmt.Errorf("validation error: part ID is required")
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	loader := spreadsheet.NewLoader(logger, nil)
	aggregator := sales.NewAggregator(spreadsheet.NewSalesMasterSource(cfg.Sales.Dir, cfg.Sales.Marker, loader), c.now, logger)

	audit := aggregator.Audit(ctx, branch, partID)
	output.PrintAudit(c.config.Stdout, audit, c.config.ShowEvents)
	return nil
}

// showHelp displays help information
func (c *AuditCommand) showHelp() {
	fmt.Fprintln(c.config.Stdout, `Sales Audit

USAGE:
    replenish audit -branch <code> -part <id> [OPTIONS]

OPTIONS:
    -config <file>     YAML configuration (default: $REPLENISH_CONFIG)
    -branch <code>     Branch code: cuautitlan, tultitlan
    -part <id>         Part number to trace
    -sales <dir>       Sales master directory (default: $SALES_MASTER_DIR)
    -events            List every sale counted in the window
    -help              Show this help message`)
}
