package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// Formato del código de lote: <YYMMDD>-L<linea>-<codigoSKU>-<secuencia de 3 dígitos>.
// El código de SKU puede contener guiones: es todo lo que queda entre el 2º y el último segmento.
const (
	lotDateLayout = "060102"
	lotSeqWidth   = 3
	maxLotSeq     = 999
)

// LotCodeParts segmentos crudos de un código de lote.
type LotCodeParts struct {
	Date string
	Line string
	SKU  string
	Seq  string
}

// FormatLotDate devuelve la parte YYMMDD.
func FormatLotDate(t time.Time) string {
	return t.Format(lotDateLayout)
}

// FormatLotLine devuelve la parte L<linea>.
func FormatLotLine(lineID int64) string {
	return "L" + strconv.FormatInt(lineID, 10)
}

// LotCodePrefix prefijo común a todos los lotes de un SKU/línea/fecha (incluye el guion final).
func LotCodePrefix(producedAt time.Time, lineID int64, skuCode string) string {
	return FormatLotDate(producedAt) + "-" + FormatLotLine(lineID) + "-" + skuCode + "-"
}

// BuildLotCode arma el código completo.
func BuildLotCode(producedAt time.Time, lineID int64, skuCode string, seq int) string {
	return fmt.Sprintf("%s%0*d", LotCodePrefix(producedAt, lineID, skuCode), lotSeqWidth, seq)
}

// ParseLotCode separa el código en sus cuatro partes.
func ParseLotCode(code string) (LotCodeParts, error) {
	segs := strings.Split(strings.TrimSpace(code), "-")
	if len(segs) < 4 {
		return LotCodeParts{}, fmt.Errorf("%w: %q", domain.ErrMalformedLotCode, code)
	}
	return LotCodeParts{
		Date: segs[0],
		Line: segs[1],
		SKU:  strings.Join(segs[2:len(segs)-1], "-"),
		Seq:  segs[len(segs)-1],
	}, nil
}

// LotCodeExpectation lo que un código debe codificar para un movimiento de producción.
type LotCodeExpectation struct {
	SKUCode    string
	LineID     int64
	ProducedAt time.Time
}

// ValidateLotCode verifica formato y correspondencia del código con SKU, línea y fecha.
func ValidateLotCode(code string, exp LotCodeExpectation) error {
	parts, err := ParseLotCode(code)
	if err != nil {
		return err
	}
	if !isDigits(parts.Date, len(lotDateLayout)) {
		return fmt.Errorf("%w: fecha %q", domain.ErrMalformedLotCode, parts.Date)
	}
	if !isDigits(parts.Seq, lotSeqWidth) {
		return fmt.Errorf("%w: secuencia %q", domain.ErrMalformedLotCode, parts.Seq)
	}
	if parts.Date != FormatLotDate(exp.ProducedAt) {
		return fmt.Errorf("%w: fecha %s, se esperaba %s", domain.ErrLotMismatch, parts.Date, FormatLotDate(exp.ProducedAt))
	}
	if parts.Line != FormatLotLine(exp.LineID) {
		return fmt.Errorf("%w: línea %s, se esperaba %s", domain.ErrLotMismatch, parts.Line, FormatLotLine(exp.LineID))
	}
	if parts.SKU != exp.SKUCode {
		return fmt.Errorf("%w: sku %s, se esperaba %s", domain.ErrLotMismatch, parts.SKU, exp.SKUCode)
	}
	return nil
}

// CheckExistingLot valida un lote ya persistido con el mismo código.
// allowExistingID es el ID que el llamador dice estar actualizando (nil = alta de lote nuevo
// por código, en cuyo caso se reutiliza el existente si es compatible).
func CheckExistingLot(existing *entity.ProductionLot, skuID, depositID int64, lineID *int64, allowExistingID *int64) error {
	if existing == nil {
		return nil
	}
	if allowExistingID != nil && existing.ID != *allowExistingID {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateLotCode, existing.LotCode)
	}
	if existing.SKUID != skuID || existing.DepositID != depositID {
		return fmt.Errorf("%w: %s pertenece a otro SKU o depósito", domain.ErrLotMismatch, existing.LotCode)
	}
	if lineID != nil && existing.ProductionLineID != nil && *existing.ProductionLineID != *lineID {
		return fmt.Errorf("%w: %s pertenece a otra línea", domain.ErrLotMismatch, existing.LotCode)
	}
	return nil
}

// NextLotSequence devuelve max(secuencia)+1 entre los códigos con el prefijo dado.
// Los códigos con secuencia ilegible cuentan como 0.
func NextLotSequence(existingCodes []string, prefix string) (int, error) {
	maxSeq := 0
	for _, code := range existingCodes {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		rest := strings.TrimPrefix(code, prefix)
		if strings.Contains(rest, "-") {
			// otro SKU cuyo código empieza igual (ej. CUC vs CUC-PT-24)
			continue
		}
		seq := 0
		if n, err := strconv.Atoi(rest); err == nil && n > 0 {
			seq = n
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	next := maxSeq + 1
	if next > maxLotSeq {
		return 0, fmt.Errorf("%w: %s", domain.ErrLotSequenceExhausted, prefix)
	}
	return next, nil
}

func isDigits(s string, width int) bool {
	if len(s) != width {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
