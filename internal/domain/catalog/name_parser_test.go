package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/margin-sync/internal/domain/catalog"
)

var testBrands = catalog.BrandTable{
	"New":         "New",
	"New Balance": "New Balance",
	"Nike":        "Nike",
	"Adidas":      "Adidas",
}

// ──────────────────────────────────────────────────────────────────────────────
// Formato con coma: "marca modelo - color, talla"
// ──────────────────────────────────────────────────────────────────────────────

func TestParseProductName_FormatoConComa(t *testing.T) {
	p := catalog.ParseProductName("Nike Air Max 90 - blanco, 42", testBrands)

	assert.Equal(t, "Nike", p.Brand)
	assert.Equal(t, "Air Max 90", p.Model)
	assert.Equal(t, "blanco", p.Color)
	assert.Equal(t, "42", p.Size)
}

func TestParseProductName_ConComaSinGuion_TodoEsModelo(t *testing.T) {
	// Sin " - " el lado izquierdo completo es el modelo, sin color.
	p := catalog.ParseProductName("Nike Air Max 90 blanco, 42", testBrands)

	assert.Equal(t, "Air Max 90 blanco", p.Model)
	assert.Empty(t, p.Color)
	assert.Equal(t, "42", p.Size)
}

// ──────────────────────────────────────────────────────────────────────────────
// Formato sin coma: "marca modelo - talla - color"
// ──────────────────────────────────────────────────────────────────────────────

func TestParseProductName_FormatoSinComa(t *testing.T) {
	p := catalog.ParseProductName("Adidas Gazelle - 38 - negro", testBrands)

	assert.Equal(t, "Adidas", p.Brand)
	assert.Equal(t, "Gazelle", p.Model)
	assert.Equal(t, "38", p.Size)
	assert.Equal(t, "negro", p.Color)
}

func TestParseProductName_SinComaDosPartes_SinColor(t *testing.T) {
	p := catalog.ParseProductName("Adidas Gazelle - 38", testBrands)

	assert.Equal(t, "Gazelle", p.Model)
	assert.Equal(t, "38", p.Size)
	assert.Empty(t, p.Color)
}

func TestParseProductName_SinSeparadores_SoloModelo(t *testing.T) {
	p := catalog.ParseProductName("Adidas Gazelle", testBrands)

	assert.Equal(t, "Adidas", p.Brand)
	assert.Equal(t, "Gazelle", p.Model)
	assert.Empty(t, p.Size)
	assert.Empty(t, p.Color)
}

// ──────────────────────────────────────────────────────────────────────────────
// Detección de marca por prefijo
// ──────────────────────────────────────────────────────────────────────────────

// La marca más larga gana: "New Balance 574" no debe parsearse como marca
// "New" con modelo "Balance 574".
func TestParseProductName_MarcaMasLargaGana(t *testing.T) {
	p := catalog.ParseProductName("New Balance 574 - gris, 44", testBrands)

	assert.Equal(t, "New Balance", p.Brand)
	assert.Equal(t, "574", p.Model)
	assert.Equal(t, "gris", p.Color)
	assert.Equal(t, "44", p.Size)
}

func TestParseProductName_MarcaCaseInsensitive(t *testing.T) {
	p := catalog.ParseProductName("NIKE Pegasus - 40 - azul", testBrands)

	assert.Equal(t, "Nike", p.Brand, "debe devolver el nombre para mostrar de la tabla")
	assert.Equal(t, "Pegasus", p.Model)
}

func TestParseProductName_SinMarcaConocida(t *testing.T) {
	p := catalog.ParseProductName("Zapato generico - 41 - cafe", testBrands)

	assert.Empty(t, p.Brand)
	assert.Equal(t, "Zapato generico", p.Model)
	assert.Equal(t, "41", p.Size)
	assert.Equal(t, "cafe", p.Color)
}

// El prefijo debe ser palabra completa: "Nikestore X" no es marca Nike.
func TestParseProductName_PrefijoNoEsPalabraCompleta(t *testing.T) {
	p := catalog.ParseProductName("Nikestore X - 40 - rojo", testBrands)

	assert.Empty(t, p.Brand)
	assert.Equal(t, "Nikestore X", p.Model)
}

func TestParseProductName_TablaVacia(t *testing.T) {
	p := catalog.ParseProductName("Nike Air - 40 - rojo", nil)

	assert.Empty(t, p.Brand)
	assert.Equal(t, "Nike Air", p.Model)
}
