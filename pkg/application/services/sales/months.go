package sales

import (
	"strconv"

	"github.com/vsinha/replenish/pkg/domain/labels"
)

var monthNumbers = map[string]int{
	"ENERO": 1, "ENE": 1,
	"FEBRERO": 2, "FEB": 2,
	"MARZO": 3, "MAR": 3,
	"ABRIL": 4, "ABR": 4,
	"MAYO": 5, "MAY": 5,
	"JUNIO": 6, "JUN": 6,
	"JULIO": 7, "JUL": 7,
	"AGOSTO": 8, "AGO": 8,
	"SEPTIEMBRE": 9, "SETIEMBRE": 9, "SEP": 9, "SEPT": 9, "SET": 9,
	"OCTUBRE": 10, "OCT": 10,
	"NOVIEMBRE": 11, "NOV": 11,
	"DICIEMBRE": 12, "DIC": 12,
}

// MonthNumber maps a Spanish month label (full or abbreviated, any case) to
// 1-12. Plain numbers 1-12 are accepted too. Anything else is 0, which no
// window contains.
func MonthNumber(label string) int {
	key := labels.Fold(label)
	if n, ok := monthNumbers[key]; ok {
		return n
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 12 {
		return n
	}
	return 0
}
