package stats

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stats-dashboard-service/internal/model"
)

const buenosAires = "buenos aires"

type ProvinceCount struct {
	Province string `json:"province"`
	Count    int    `json:"count"`
	Fill     string `json:"fill"`
}

type ProvinceReport struct {
	TotalUsers int             `json:"totalUsers"`
	Provinces  []ProvinceCount `json:"usersByProvince"`
}

// NormalizeProvince pasa a minúsculas, recorta y colapsa espacios internos.
func NormalizeProvince(p string) string {
	return strings.Join(strings.Fields(strings.ToLower(p)), " ")
}

// ProvinceFill devuelve el color del gráfico para una provincia normalizada.
func ProvinceFill(province string) string {
	if province == buenosAires {
		return "var(--color-buenos-aires)"
	}
	return ColorFor(province)
}

// Provinces cuenta usuarios por provincia de envío. Los usuarios sin
// provincia suman al total pero no a ningún grupo.
func Provinces(users []model.User) ProvinceReport {
	counts := make(map[string]int)
	for _, u := range users {
		if u.Shipping == nil {
			continue
		}
		if p := NormalizeProvince(u.Shipping.Province); p != "" {
			counts[p]++
		}
	}

	names := make([]string, 0, len(counts))
	for p := range counts {
		names = append(names, p)
	}
	// orden alfabético en castellano ("córdoba" antes de "corrientes")
	col := collate.New(language.Spanish)
	sort.SliceStable(names, func(i, j int) bool {
		return col.CompareString(names[i], names[j]) < 0
	})

	out := make([]ProvinceCount, 0, len(names))
	for _, p := range names {
		out = append(out, ProvinceCount{Province: p, Count: counts[p], Fill: ProvinceFill(p)})
	}
	return ProvinceReport{TotalUsers: len(users), Provinces: out}
}
