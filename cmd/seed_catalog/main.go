// seed_catalog genera el script SQL que siembra los tipos de movimiento y el catálogo
// de SKUs a partir de la planilla exportada desde Excel (CSV separado por ';').
//
// Uso: go run ./cmd/seed_catalog [-utf8] [-out archivo.sql] [ruta/skus.csv]
// Por defecto lee skus.csv en Windows-1252 (exportación de Excel) y escribe a stdout.
// Columnas: code;name;type;unit;units_per_kg (units_per_kg solo para SEMI).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	utf8In := flag.Bool("utf8", false, "el CSV ya está en UTF-8")
	outPath := flag.String("out", "", "archivo SQL de salida (vacío = stdout)")
	flag.Parse()

	csvPath := "skus.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if !*utf8In {
		in = windows1252Reader(f)
	}
	rows, err := parseSKUs(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}
	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d tipos de movimiento, %d SKUs\n", len(movementTypeSeeds), len(rows))
}
