// token emite un JWT de desarrollo con el secreto de la configuración.
//
// Uso: go run ./cmd/token -user ana.perez -role admin
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/jwt"
)

func main() {
	userName := flag.String("user", "", "nombre del responsable (claim user_name)")
	role := flag.String("role", "bodeguero", "admin | bodeguero | consulta")
	userID := flag.String("id", "", "user_id; vacío genera uno")
	flag.Parse()

	if *userName == "" {
		fmt.Fprintln(os.Stderr, "-user es obligatorio")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *userID == "" {
		*userID = uuid.NewString()
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *userName, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
