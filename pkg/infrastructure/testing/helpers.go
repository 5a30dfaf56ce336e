package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is a two-branch input set laid out on disk. Inputs follow the
// <branch>_<kind>.csv naming the report command looks for.
type Scenario struct {
	Dir      string
	InputDir string
	SalesDir string
}

// Input returns the path of one input file of a branch
func (s *Scenario) Input(code, kind string) string {
	return filepath.Join(s.InputDir, code+"_"+kind+".csv")
}

// WriteLines writes lines to path, creating parent directories
func WriteLines(path string, lines ...string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// BuildSimpleScenario writes the smallest complete run under dir: Cuautitlan
// baselines {A, B} with A stocked, Tultitlan baselines {A}, and a 2025 sales
// master for Cuautitlan with three in-window sales of A (one a return) for
// a 2026-02 run clock.
func BuildSimpleScenario(dir string) (*Scenario, error) {
	s := &Scenario{
		Dir:      dir,
		InputDir: filepath.Join(dir, "inputs"),
		SalesDir: filepath.Join(dir, "ventas"),
	}

	files := []struct {
		path  string
		lines []string
	}{
		{s.Input("cuautitlan", "suggestions"), []string{
			"N° PARTE,SUGERIDO DIA",
			"A,10",
			"B,3",
		}},
		{s.Input("cuautitlan", "inventory"), []string{
			"A,FILTRO,A,x,12.5,x,x,x,4,15/01/2024,20/09/2025,01/10/2025",
		}},
		{s.Input("tultitlan", "suggestions"), []string{
			"NUM. PARTE,SUGERIDO DIA",
			"A,1",
		}},
		{s.Input("tultitlan", "inventory"), []string{
			"A,FILTRO,A,x,12.5,x,x,x,6,15/01/2024,05/11/2025,01/12/2025",
		}},
		{filepath.Join(s.SalesDir, "VENTAS_CUAUTITLAN_2025_MASTER.csv"), []string{
			"N° PARTE,FECHA,CANTIDAD",
			"A,03/03/2025,2",
			"A,04/04/2025,-1",
			"A,05/05/2025,2",
			"A,15/01/2025,50",
		}},
	}

	for _, f := range files {
		if err := WriteLines(f.path, f.lines...); err != nil {
			return nil, err
		}
	}
	return s, nil
}
