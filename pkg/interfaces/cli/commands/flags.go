package commands

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/vsinha/replenish/pkg/infrastructure/config"
)

// BranchCodes returns the branch codes that get their own file flags: the
// configuration named by -config in args (or $REPLENISH_CONFIG) when it
// loads, the built-in branches otherwise.
func BranchCodes(args []string) []string {
	cfg, err := config.Load(configArg(args))
	if err != nil {
		cfg = config.Default()
	}
	codes := make([]string, 0, len(cfg.Branches))
	for _, b := range cfg.Branches {
		codes = append(codes, b.Code)
	}
	return codes
}

// configArg finds the value of -config before the flag set is parsed
func configArg(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// BranchFileFlags collects branch input paths from the command line. Every
// branch passed to Register gets -<code>-<kind> flags; -input code:kind=path
// reaches any branch, including ones renamed in the YAML configuration.
type BranchFileFlags struct {
	files map[string]*BranchFiles
}

// NewBranchFileFlags creates an empty collector
func NewBranchFileFlags() *BranchFileFlags {
	return &BranchFileFlags{files: make(map[string]*BranchFiles)}
}

// Register defines the per-branch file flags and the -input flag on fs
func (b *BranchFileFlags) Register(fs *flag.FlagSet, codes []string) {
	for _, code := range codes {
		f := b.branch(code)
		fs.StringVar(&f.Suggestions, code+"-"+KindSuggestions, "", "Suggested-order baseline for "+code)
		fs.StringVar(&f.Inventory, code+"-"+KindInventory, "", "Inventory export for "+code)
		fs.StringVar(&f.Transit, code+"-"+KindTransit, "", "In-transit table for "+code)
		fs.StringVar(&f.Transfers, code+"-"+KindTransfers, "", "Transfer ledger for "+code)
	}
	fs.Var(b, "input", "Input file as <branch>:<kind>=<path> (repeatable)")
}

// String implements flag.Value
func (b *BranchFileFlags) String() string {
	if b == nil {
		return ""
	}
	var parts []string
	for code, f := range b.files {
		for kind, path := range map[string]string{
			KindSuggestions: f.Suggestions,
			KindInventory:   f.Inventory,
			KindTransit:     f.Transit,
			KindTransfers:   f.Transfers,
		} {
			if path != "" {
				parts = append(parts, fmt.Sprintf("%s:%s=%s", code, kind, path))
			}
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Set implements flag.Value for -input <branch>:<kind>=<path>
func (b *BranchFileFlags) Set(value string) error {
	target, path, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(path) == "" {
		return fmt.Errorf("expected <branch>:<kind>=<path>, got %q", value)
	}
	code, kind, ok := strings.Cut(target, ":")
	code = strings.TrimSpace(code)
	if !ok || code == "" {
		return fmt.Errorf("expected <branch>:<kind>=<path>, got %q", value)
	}

	f := b.branch(code)
	path = strings.TrimSpace(path)
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindSuggestions:
		f.Suggestions = path
	case KindInventory:
		f.Inventory = path
	case KindTransit:
		f.Transit = path
	case KindTransfers:
		f.Transfers = path
	default:
		return fmt.Errorf("unknown input kind %q (expected: %s, %s, %s or %s)",
			kind, KindSuggestions, KindInventory, KindTransit, KindTransfers)
	}
	return nil
}

// Files returns the collected paths by branch code
func (b *BranchFileFlags) Files() map[string]BranchFiles {
	out := make(map[string]BranchFiles, len(b.files))
	for code, f := range b.files {
		out[code] = *f
	}
	return out
}

func (b *BranchFileFlags) branch(code string) *BranchFiles {
	code = strings.ToLower(code)
	f, ok := b.files[code]
	if !ok {
		f = &BranchFiles{}
		b.files[code] = f
	}
	return f
}
