package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
)

// foldText pasa a minúsculas y quita tildes: "Almacén" → "almacen".
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// containsFolded indica si alguno de fields contiene term, ignorando mayúsculas y tildes.
// Un term vacío coincide con todo.
func containsFolded(term string, fields ...string) bool {
	term = foldText(term)
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(foldText(f), term) {
			return true
		}
	}
	return false
}

// paginate recorta items según la página y devuelve los metadatos.
func paginate[T any](items []T, page dto.PageRequest) ([]T, dto.PageResponse) {
	page.DefaultPage()
	total := len(items)
	meta := dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}
	if page.Offset >= total {
		return []T{}, meta
	}
	end := page.Offset + page.Limit
	if end > total {
		end = total
	}
	return items[page.Offset:end], meta
}
