package catalog

import (
	"sort"
	"strings"
)

// BrandTable tabla de referencia marca → nombre para mostrar, cargada una vez
// por corrida desde la colección de referencia (solo lectura).
type BrandTable map[string]string

// ParsedName resultado de parsear el nombre comercial de un producto.
type ParsedName struct {
	Brand string
	Model string
	Color string
	Size  string
}

// ParseProductName separa "marca modelo - color, talla" o
// "marca modelo - talla - color" en sus componentes.
//
// La marca se detecta con un escaneo de prefijos contra la tabla de
// referencia, probando primero las marcas más largas ("New Balance" antes
// que "New"). El resto se parsea con dos variantes y la presencia de una
// coma decide cuál: es la única señal que distingue las dos convenciones
// históricas de nombres en los datos de origen, así que el predicado debe
// conservarse tal cual.
//
//	con coma:  "modelo - color, talla"
//	sin coma:  "modelo - talla - color"
func ParseProductName(name string, brands BrandTable) ParsedName {
	name = strings.TrimSpace(name)
	parsed := ParsedName{}

	rest := name
	if brand, display := matchBrand(name, brands); brand != "" {
		parsed.Brand = display
		rest = strings.TrimSpace(name[len(brand):])
	}

	if idx := strings.Index(rest, ","); idx >= 0 {
		// "modelo - color, talla"
		parsed.Size = strings.TrimSpace(rest[idx+1:])
		left := strings.TrimSpace(rest[:idx])
		if model, color, ok := splitDash2(left); ok {
			parsed.Model = model
			parsed.Color = color
		} else {
			parsed.Model = left
		}
		return parsed
	}

	// "modelo - talla - color"
	parts := strings.SplitN(rest, " - ", 3)
	switch len(parts) {
	case 3:
		parsed.Model = strings.TrimSpace(parts[0])
		parsed.Size = strings.TrimSpace(parts[1])
		parsed.Color = strings.TrimSpace(parts[2])
	case 2:
		parsed.Model = strings.TrimSpace(parts[0])
		parsed.Size = strings.TrimSpace(parts[1])
	default:
		parsed.Model = rest
	}
	return parsed
}

// matchBrand busca la marca más larga cuyo prefijo coincide con el nombre.
// Devuelve la marca tal como aparece en el nombre y su nombre para mostrar.
func matchBrand(name string, brands BrandTable) (brand, display string) {
	keys := make([]string, 0, len(brands))
	for k := range brands {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	lower := strings.ToLower(name)
	for _, k := range keys {
		kl := strings.ToLower(k)
		if lower == kl || strings.HasPrefix(lower, kl+" ") {
			return name[:len(k)], brands[k]
		}
	}
	return "", ""
}

// splitDash2 separa "modelo - color" en dos; ok=false si no hay separador.
func splitDash2(s string) (model, color string, ok bool) {
	parts := strings.SplitN(s, " - ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
