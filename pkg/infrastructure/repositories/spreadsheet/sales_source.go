package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/labels"
)

var digitRun = regexp.MustCompile(`\d+`)

var salesExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
}

// SalesMasterSource finds and reads the monthly sales master files kept in
// one folder. File names carry the branch token, a year and a marker, e.g.
// VENTAS_CUAUTITLAN_2025_MASTER.xlsx.
type SalesMasterSource struct {
	dir    string
	marker string
	loader *Loader
}

// NewSalesMasterSource creates a source over dir
func NewSalesMasterSource(dir, marker string, loader *Loader) *SalesMasterSource {
	return &SalesMasterSource{dir: dir, marker: marker, loader: loader}
}

// Discover lists the files of a branch for any of the given years, sorted by name
func (s *SalesMasterSource) Discover(branchToken string, years []int) ([]string, error) {
	if s.dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales folder %s: %w", s.dir, err)
	}

	wanted := make(map[int]bool, len(years))
	for _, y := range years {
		wanted[y] = true
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !salesExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if !labels.Contains(name, branchToken) || !labels.Contains(name, s.marker) {
			continue
		}
		if !nameHasYear(name, wanted) {
			continue
		}
		files = append(files, filepath.Join(s.dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// ReadSales reads one discovered file
func (s *SalesMasterSource) ReadSales(path string) (*entities.SalesSheet, error) {
	return s.loader.ReadSales(path)
}

func nameHasYear(name string, wanted map[int]bool) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	for _, run := range digitRun.FindAllString(base, -1) {
		if len(run) != 4 {
			continue
		}
		if y, err := strconv.Atoi(run); err == nil && wanted[y] {
			return true
		}
	}
	return false
}
