package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var expectedHeader = []string{"code", "name", "type", "unit", "units_per_kg"}

type movementTypeSeed struct {
	code, label string
}

// movementTypeSeeds tipos de movimiento base; la dirección queda NULL y se resuelve por código.
var movementTypeSeeds = []movementTypeSeed{
	{entity.MovementCodeProduction, "Producción"},
	{entity.MovementCodeConsumption, "Consumo"},
	{entity.MovementCodeAdjustment, "Ajuste"},
	{entity.MovementCodeTransfer, "Transferencia"},
	{entity.MovementCodeRemito, "Remito"},
	{entity.MovementCodeMerma, "Merma"},
	{entity.MovementCodePurchase, "Compra"},
}

var knownTypes = map[string]bool{
	entity.SKUTypeFinished:     true,
	entity.SKUTypeSemiFinished: true,
	entity.SKUTypeRawMaterial:  true,
	entity.SKUTypeConsumable:   true,
}

var knownUnits = map[string]bool{
	entity.UnitUnit: true, entity.UnitKg: true, entity.UnitG: true,
	entity.UnitL: true, entity.UnitML: true, entity.UnitPack: true,
	entity.UnitBox: true, entity.UnitM: true, entity.UnitCM: true,
}

type skuRow struct {
	code, name, typeCode, unit string
	unitsPerKg                 *decimal.Decimal
}

func windows1252Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, charmap.Windows1252.NewDecoder())
}

// parseSKUs lee la planilla de SKUs. Valida encabezado, tipo y unidad de cada fila.
func parseSKUs(r io.Reader) ([]skuRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("el CSV debe tener encabezado y al menos una fila")
	}
	header := records[0]
	if len(header) != len(expectedHeader) {
		return nil, fmt.Errorf("encabezado esperado %v, se obtuvo %v", expectedHeader, header)
	}
	for i, h := range expectedHeader {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")), h) {
			return nil, fmt.Errorf("encabezado esperado %v, se obtuvo %v", expectedHeader, header)
		}
	}

	seen := make(map[string]bool)
	rows := make([]skuRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		row := skuRow{
			code:     strings.ToUpper(strings.TrimSpace(rec[0])),
			name:     strings.TrimSpace(rec[1]),
			typeCode: strings.ToUpper(strings.TrimSpace(rec[2])),
			unit:     strings.ToLower(strings.TrimSpace(rec[3])),
		}
		if row.code == "" || row.name == "" {
			return nil, fmt.Errorf("fila %d: code y name son obligatorios", line)
		}
		if !isSKUCode(row.code) {
			return nil, fmt.Errorf("fila %d: código %q inválido", line, row.code)
		}
		if seen[row.code] {
			return nil, fmt.Errorf("fila %d: código %s repetido", line, row.code)
		}
		seen[row.code] = true
		if !knownTypes[row.typeCode] {
			return nil, fmt.Errorf("fila %d: tipo %q desconocido", line, row.typeCode)
		}
		if !knownUnits[row.unit] {
			return nil, fmt.Errorf("fila %d: unidad %q no soportada", line, row.unit)
		}
		if raw := strings.TrimSpace(rec[4]); raw != "" {
			// Excel en es-UY exporta la coma decimal.
			upk, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
			if err != nil || !upk.IsPositive() {
				return nil, fmt.Errorf("fila %d: units_per_kg %q inválido", line, raw)
			}
			if row.typeCode != entity.SKUTypeSemiFinished {
				return nil, fmt.Errorf("fila %d: units_per_kg solo aplica a SEMI", line)
			}
			row.unitsPerKg = &upk
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// isSKUCode segmentos alfanuméricos no vacíos separados por guion (ej. CUC-PT-24).
func isSKUCode(code string) bool {
	for _, seg := range strings.Split(code, "-") {
		if seg == "" {
			return false
		}
		for _, r := range seg {
			if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
				return false
			}
		}
	}
	return true
}

// writeSQL escribe el script idempotente (ON CONFLICT) de tipos de movimiento, SKUs y conversiones.
func writeSQL(w io.Writer, rows []skuRow) error {
	var b strings.Builder
	b.WriteString("-- Catálogo base de stock\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	b.WriteString("-- 1. Tipos de movimiento\n")
	b.WriteString("INSERT INTO stock_movement_types (code, label, is_active) VALUES\n")
	for i, mt := range movementTypeSeeds {
		sep := ","
		if i == len(movementTypeSeeds)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  ('%s', '%s', TRUE)%s\n", mt.code, escapeSQL(mt.label), sep)
	}
	b.WriteString("ON CONFLICT (code) DO UPDATE SET label = EXCLUDED.label;\n\n")

	b.WriteString("-- 2. SKUs\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "INSERT INTO skus (code, name, sku_type_id, unit, is_active)\n")
		fmt.Fprintf(&b, "SELECT '%s', '%s', id, '%s', TRUE FROM sku_types WHERE code = '%s'\n",
			escapeSQL(r.code), escapeSQL(r.name), r.unit, r.typeCode)
		b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, unit = EXCLUDED.unit;\n")
	}

	b.WriteString("\n-- 3. Reglas de conversión de semielaborados\n")
	for _, r := range rows {
		if r.unitsPerKg == nil {
			continue
		}
		fmt.Fprintf(&b, "INSERT INTO semi_conversion_rules (sku_id, units_per_kg, secondary_unit)\n")
		fmt.Fprintf(&b, "SELECT id, %s, '%s' FROM skus WHERE code = '%s'\n",
			r.unitsPerKg.String(), entity.UnitUnit, escapeSQL(r.code))
		b.WriteString("ON CONFLICT (sku_id) DO UPDATE SET units_per_kg = EXCLUDED.units_per_kg;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
