package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/kardex-api/internal/testutil"
)

func TestParseReference(t *testing.T) {
	in := "tipo,id,nombre\nDepartamento, d-cocina ,Cocina\ncategoria,c-aseo,Aseo\n"
	rows, err := parseReference(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, referenceRow{kind: kindDepartment, id: "d-cocina", name: "Cocina"}, rows[0])
	assert.Equal(t, kindCategory, rows[1].kind)
}

func TestParseReference_Errores(t *testing.T) {
	tests := map[string]string{
		"tipo desconocido": "tipo,id,nombre\nbodega,b-1,Central\n",
		"sin nombre":       "tipo,id,nombre\ncategoria,c-1,\n",
		"columnas":         "tipo,id,nombre\ncategoria,c-1\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseReference(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestParseReference_Latin1(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String("tipo,id,nombre\ndepartamento,d-rrhh,Gestión Humana\n")
	require.NoError(t, err)

	rows, err := parseReference(transform.NewReader(bytes.NewReader([]byte(latin)), charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gestión Humana", rows[0].name)
}

func TestSeed_Idempotente(t *testing.T) {
	store := testutil.NewStore(t)
	rows := []referenceRow{
		{kind: kindDepartment, id: "d-cocina", name: "Cocina"},
		{kind: kindCategory, id: "c-aseo", name: "Aseo"},
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		depts, cats, err := seed(ctx, store.Reference, rows)
		require.NoError(t, err)
		assert.Equal(t, 1, depts)
		assert.Equal(t, 1, cats)
	}

	all, err := store.Reference.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
