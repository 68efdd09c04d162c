// seed carga departamentos y categorías de referencia desde un CSV.
//
// Uso: go run ./cmd/seed [-latin1] [ruta/referencia.csv]
// Por defecto lee referencia.csv en el directorio actual. Formato (con encabezado):
//
//	tipo,id,nombre
//	departamento,d-cocina,Cocina
//	categoria,c-aseo,Aseo
//
// El alta es idempotente: un id o nombre ya existente se omite.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/kardex-api/internal/infrastructure/storage"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

const (
	kindDepartment = "departamento"
	kindCategory   = "categoria"
)

type referenceRow struct {
	kind string
	id   string
	name string
}

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1 (exportaciones de Excel)")
	flag.Parse()

	csvPath := "referencia.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := parseReference(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	depts, cats, err := seed(ctx, store.Reference, rows)
	if err != nil {
		log.Error().Err(err).Msg("seed interrumpido")
		return
	}
	log.Info().
		Int("departamentos", depts).
		Int("categorias", cats).
		Str("driver", store.Driver).
		Msg("referencia cargada")
}

// parseReference lee el CSV tipo,id,nombre. La primera fila es encabezado.
func parseReference(r io.Reader) ([]referenceRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 3

	var rows []referenceRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 {
			continue
		}
		row := referenceRow{
			kind: strings.ToLower(strings.TrimSpace(rec[0])),
			id:   strings.TrimSpace(rec[1]),
			name: strings.TrimSpace(rec[2]),
		}
		if row.kind != kindDepartment && row.kind != kindCategory {
			return nil, fmt.Errorf("línea %d: tipo %q desconocido", line, rec[0])
		}
		if row.id == "" || row.name == "" {
			return nil, fmt.Errorf("línea %d: id y nombre son obligatorios", line)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func seed(ctx context.Context, ref storage.ReferenceStore, rows []referenceRow) (depts, cats int, err error) {
	for _, row := range rows {
		switch row.kind {
		case kindDepartment:
			if err := ref.UpsertDepartment(ctx, row.id, row.name); err != nil {
				return depts, cats, fmt.Errorf("departamento %s: %w", row.id, err)
			}
			depts++
		case kindCategory:
			if err := ref.UpsertCategory(ctx, row.id, row.name); err != nil {
				return depts, cats, fmt.Errorf("categoría %s: %w", row.id, err)
			}
			cats++
		}
	}
	return depts, cats, nil
}
