package stats

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"time"
	_ "time/tzdata" // la zona de Buenos Aires tiene que existir aunque el host no tenga tzdata

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var arPrinter = message.NewPrinter(language.MustParse("es-AR"))

// FormatARS formatea un importe en pesos con separadores de es-AR, p.ej. "$ 1.234,50".
func FormatARS(amount decimal.Decimal, fractionDigits int) string {
	if fractionDigits < 0 {
		fractionDigits = 0
	}
	f := amount.Round(int32(fractionDigits)).InexactFloat64()
	return "$ " + arPrinter.Sprintf("%."+strconv.Itoa(fractionDigits)+"f", f)
}

var shortMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// ShortDate convierte "2024-03-05" en "5 mar". Si no parsea devuelve la entrada.
func ShortDate(day string) string {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return day
	}
	return fmt.Sprintf("%d %s", t.Day(), shortMonths[t.Month()-1])
}

// ColorFor deriva un color estable a partir de una clave.
func ColorFor(key string) string {
	h := fnv.New32a()
	h.Write([]byte(key))
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", h.Sum32()%360)
}

// LoadLocation resuelve la zona horaria configurada; vacío significa UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("zona horaria %q: %w", name, err)
	}
	return loc, nil
}
