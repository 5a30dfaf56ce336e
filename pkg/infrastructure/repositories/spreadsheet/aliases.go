package spreadsheet

// Header aliases accepted for each logical column. Matching goes through
// labels.Fold, so case, accents and punctuation do not matter.
var (
	partIDAliases    = []string{"N° PARTE", "NO PARTE", "NUM PARTE", "NUMERO DE PARTE", "NUMERO PARTE", "PARTE", "PART NUMBER"}
	suggestedAliases = []string{"SUGERIDO DIA", "SUGERIDO", "SUGERIDO DEL DIA"}
	demandAliases    = []string{"ULTIMOS 12 MESES", "DEMANDA 12 MESES", "VENTA 12 MESES", "12 MESES"}
	transitAliases   = []string{"TRANSITO", "EN TRANSITO", "CANTIDAD TRANSITO", "CANT TRANSITO"}
	quantityAliases  = []string{"CANTIDAD", "CANT", "PIEZAS", "UNIDADES"}
	dateAliases      = []string{"FECHA", "FECHA VENTA", "FECHA FACTURA"}
	yearAliases      = []string{"AÑO", "ANIO", "EJERCICIO"}
	monthAliases     = []string{"MES"}
)
