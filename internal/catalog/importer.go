package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ImportResult summarizes a bulk import run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ParseImport decodes a bulk-import payload into products ready for
// Store.Add. format is "json" (array of products) or "csv" with one
// product per line: nombre;precio;stock;categoria;etiqueta|etiqueta;
// descripcion;imagen. Malformed numeric fields normalize to 0; rows with
// fewer than three fields are dropped.
func ParseImport(payload []byte, format string) ([]Producto, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		return parseJSONImport(payload)
	case "csv":
		return parseCSVImport(payload), nil
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
}

func parseJSONImport(payload []byte) ([]Producto, error) {
	var raw []Producto
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode import payload: %w", err)
	}
	out := make([]Producto, 0, len(raw))
	for _, p := range raw {
		p.ID = 0 // ids are assigned by the store
		out = append(out, p)
	}
	return out, nil
}

func parseCSVImport(payload []byte) []Producto {
	lines := strings.Split(strings.ReplaceAll(string(payload), "\r\n", "\n"), "\n")
	out := []Producto{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) < 3 {
			continue
		}

		precio, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			precio = 0
		}
		stock, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			stock = 0
		}

		p := Producto{
			Nombre: strings.TrimSpace(fields[0]),
			Precio: precio,
			Stock:  stock,
		}
		if len(fields) > 3 {
			p.Categoria = strings.TrimSpace(fields[3])
		}
		if len(fields) > 4 {
			p.Etiquetas = NormalizeTags(strings.Split(fields[4], "|"))
		}
		if len(fields) > 5 {
			p.Descripcion = strings.TrimSpace(fields[5])
		}
		if len(fields) > 6 {
			p.Imagen = strings.TrimSpace(fields[6])
		}
		out = append(out, p)
	}
	return out
}
