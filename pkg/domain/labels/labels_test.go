package labels

import "testing"

func TestFold(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"  N° PARTE ", "N PARTE"},
		{"Nº parte", "NO PARTE"},
		{"NO. PARTE", "NO PARTE"},
		{"Año", "ANO"},
		{"Cuautitlán", "CUAUTITLAN"},
		{"SUGERIDO   DIA", "SUGERIDO DIA"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := Fold(tc.in); got != tc.expected {
			t.Errorf("Expected Fold(%q) = %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestFind(t *testing.T) {
	headers := []string{"DESCR", " n° parte ", "SUGERIDO DIA"}
	if idx := Find(headers, "N° PARTE", "NO PARTE"); idx != 1 {
		t.Errorf("Expected index 1, got %d", idx)
	}
	if idx := Find(headers, "TRANSITO"); idx != -1 {
		t.Errorf("Expected -1 for a missing header, got %d", idx)
	}
}

func TestContains(t *testing.T) {
	if !Contains("VENTAS_TULTITLÁN_2025_MASTER.xlsx", "tultitlan") {
		t.Errorf("Expected accent-insensitive token match")
	}
	if Contains("VENTAS_CUAUTITLAN_2025.xlsx", "") {
		t.Errorf("Expected empty token never to match")
	}
}
