package entities

// Branch describes one warehouse and how its files and report are labeled
type Branch struct {
	// Code is the short key used in file names and flags, e.g. "cuautitlan"
	Code string
	// Name is the upper-case name used in column headers, e.g. "CUAUTITLAN"
	Name string
	// ShortName labels the foreign last-purchase column, e.g. "CUAUTI"
	ShortName string
	SheetName string
	// IDLabel is the header of the part number column in this branch's sheet
	IDLabel string
	// TransferIn is the ledger code marking transfers into this branch
	TransferIn string
	// SalesToken identifies this branch in sales master file names
	SalesToken string
}
