package catalog

import (
	"math"
	"sort"
	"strings"
	"time"
)

const placeholderImage = "https://via.placeholder.com/800x600?text=Producto"

// Producto is one catalog entry. Prices are always stored in the base
// currency; precio and stock are never negative after normalization.
type Producto struct {
	ID          int      `json:"id"`
	Nombre      string   `json:"nombre"`
	Precio      float64  `json:"precio"`
	Stock       int      `json:"stock"`
	Categoria   string   `json:"categoria"`
	Etiquetas   []string `json:"etiquetas"`
	Descripcion string   `json:"descripcion"`
	Imagen      string   `json:"imagen"`
	Imagenes    []string `json:"imagenes"`
}

// NormalizeTags trims, drops empties and deduplicates case-insensitively,
// keeping the first spelling and the original order.
func NormalizeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, tag := range tags {
		clean := strings.TrimSpace(tag)
		if clean == "" {
			continue
		}
		key := strings.ToLower(clean)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, clean)
	}
	return out
}

// SplitTags parses a comma-separated tag list ("gaming, rgb") into a
// normalized set.
func SplitTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}

// Normalize coerces a product into its invariant form: finite non-negative
// precio and stock (malformed values become 0), trimmed nombre and
// categoria with defaults, deduplicated etiquetas, and a non-empty image
// gallery that falls back to the primary image, then to a placeholder.
func Normalize(p Producto) Producto {
	if p.ID <= 0 {
		p.ID = int(time.Now().UnixMilli())
	}
	if math.IsNaN(p.Precio) || math.IsInf(p.Precio, 0) || p.Precio < 0 {
		p.Precio = 0
	}
	if p.Stock < 0 {
		p.Stock = 0
	}

	p.Nombre = strings.TrimSpace(p.Nombre)
	if p.Nombre == "" {
		p.Nombre = "Producto sin nombre"
	}
	p.Categoria = strings.TrimSpace(p.Categoria)
	if p.Categoria == "" {
		p.Categoria = "General"
	}
	p.Descripcion = strings.TrimSpace(p.Descripcion)
	p.Etiquetas = NormalizeTags(p.Etiquetas)

	gallery := []string{}
	for _, u := range p.Imagenes {
		if clean := strings.TrimSpace(u); clean != "" {
			gallery = append(gallery, clean)
		}
	}
	if len(gallery) == 0 && strings.TrimSpace(p.Imagen) != "" {
		gallery = []string{strings.TrimSpace(p.Imagen)}
	}
	if len(gallery) == 0 {
		gallery = []string{placeholderImage}
	}
	p.Imagenes = gallery
	if strings.TrimSpace(p.Imagen) == "" {
		p.Imagen = gallery[0]
	} else {
		p.Imagen = strings.TrimSpace(p.Imagen)
	}

	return p
}

// Categories returns the unique categories of the full collection,
// lexicographically sorted. Facets always derive from the unfiltered
// catalog.
func Categories(products []Producto) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range products {
		if p.Categoria == "" {
			continue
		}
		if _, dup := seen[p.Categoria]; dup {
			continue
		}
		seen[p.Categoria] = struct{}{}
		out = append(out, p.Categoria)
	}
	sort.Strings(out)
	return out
}

// Tags returns the unique tags of the full collection, sorted.
func Tags(products []Producto) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range products {
		for _, tag := range p.Etiquetas {
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// seedProducts is the default catalog used when storage holds nothing.
var seedProducts = []Producto{
	{ID: 1, Nombre: "Laptop Gamer", Precio: 3500, Stock: 5, Categoria: "Computadoras",
		Etiquetas:   []string{"gaming", "alto rendimiento"},
		Descripcion: "Laptop para juegos exigentes con grafica dedicada y pantalla de 144 Hz."},
	{ID: 2, Nombre: "Auriculares Inalambricos", Precio: 250, Stock: 18, Categoria: "Audio",
		Etiquetas:   []string{"inalambrico", "bluetooth"},
		Descripcion: "Auriculares con cancelacion pasiva de ruido y 30 horas de bateria."},
	{ID: 3, Nombre: "Smartphone Pro", Precio: 2200, Stock: 10, Categoria: "Celulares",
		Etiquetas:   []string{"android", "alta gama"},
		Descripcion: "Pantalla AMOLED, 256 GB de almacenamiento y camara triple."},
	{ID: 4, Nombre: "Mouse RGB", Precio: 120, Stock: 25, Categoria: "Accesorios",
		Etiquetas:   []string{"gaming", "rgb"},
		Descripcion: "Sensor de 12 000 DPI y efectos de iluminacion personalizables."},
	{ID: 5, Nombre: "Teclado Mecanico", Precio: 400, Stock: 12, Categoria: "Accesorios",
		Etiquetas:   []string{"mecanico", "rgb"},
		Descripcion: "Interruptores blue y estructura de aluminio con apoyo para muneca."},
	{ID: 6, Nombre: "Monitor 27 Pulgadas", Precio: 950, Stock: 7, Categoria: "Monitores",
		Etiquetas:   []string{"144hz", "hdr"},
		Descripcion: "Monitor IPS con resolucion 2K ideal para trabajo y juego."},
	{ID: 7, Nombre: "Silla Ergonomica", Precio: 650, Stock: 9, Categoria: "Muebles",
		Etiquetas:   []string{"ergonomia", "oficina"},
		Descripcion: "Silla con soporte lumbar ajustable y espuma de alta densidad."},
	{ID: 8, Nombre: "Disco SSD 1TB", Precio: 480, Stock: 16, Categoria: "Almacenamiento",
		Etiquetas:   []string{"ssd", "rapido"},
		Descripcion: "Unidad NVMe con velocidades de lectura de hasta 3 500 MB por segundo."},
}

// SeedProducts returns the normalized default catalog.
func SeedProducts() []Producto {
	out := make([]Producto, 0, len(seedProducts))
	for _, p := range seedProducts {
		out = append(out, Normalize(p))
	}
	return out
}
