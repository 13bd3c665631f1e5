package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCoercesMalformedNumbers(t *testing.T) {
	tests := []struct {
		name       string
		in         Producto
		wantPrecio float64
		wantStock  int
	}{
		{"negative precio", Producto{ID: 1, Precio: -10, Stock: 3}, 0, 3},
		{"negative stock", Producto{ID: 1, Precio: 5, Stock: -2}, 5, 0},
		{"nan precio", Producto{ID: 1, Precio: math.NaN(), Stock: 1}, 0, 1},
		{"inf precio", Producto{ID: 1, Precio: math.Inf(1), Stock: 1}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.wantPrecio, got.Precio)
			assert.Equal(t, tt.wantStock, got.Stock)
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	got := Normalize(Producto{ID: 1})
	assert.Equal(t, "Producto sin nombre", got.Nombre)
	assert.Equal(t, "General", got.Categoria)
	assert.NotEmpty(t, got.Imagenes)
	assert.Equal(t, got.Imagenes[0], got.Imagen)
}

func TestNormalizeGalleryFallsBackToPrimaryImage(t *testing.T) {
	got := Normalize(Producto{ID: 1, Nombre: "x", Imagen: "https://example.com/a.jpg"})
	assert.Equal(t, []string{"https://example.com/a.jpg"}, got.Imagenes)

	got = Normalize(Producto{ID: 1, Nombre: "x",
		Imagen: "https://example.com/a.jpg", Imagenes: []string{" ", "https://example.com/b.jpg"}})
	assert.Equal(t, []string{"https://example.com/b.jpg"}, got.Imagenes)
}

func TestNormalizeTagsDedupAndTrim(t *testing.T) {
	got := NormalizeTags([]string{" Gaming ", "gaming", "", "RGB", "rgb", "hdr"})
	assert.Equal(t, []string{"Gaming", "RGB", "hdr"}, got)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"gaming", "rgb"}, SplitTags("gaming, rgb, gaming"))
	assert.Empty(t, SplitTags("  ,  , "))
}

func TestCategoriesSortedUnique(t *testing.T) {
	products := []Producto{
		{Categoria: "Monitores"},
		{Categoria: "Audio"},
		{Categoria: "Monitores"},
		{Categoria: "Accesorios"},
	}
	assert.Equal(t, []string{"Accesorios", "Audio", "Monitores"}, Categories(products))
}

func TestTagsSortedUnique(t *testing.T) {
	products := []Producto{
		{Etiquetas: []string{"rgb", "gaming"}},
		{Etiquetas: []string{"gaming", "hdr"}},
	}
	assert.Equal(t, []string{"gaming", "hdr", "rgb"}, Tags(products))
}

func TestSeedProductsAreNormalized(t *testing.T) {
	seed := SeedProducts()
	assert.Len(t, seed, 8)
	for _, p := range seed {
		assert.GreaterOrEqual(t, p.Precio, 0.0)
		assert.GreaterOrEqual(t, p.Stock, 0)
		assert.NotEmpty(t, p.Imagenes)
	}
}
