package entity

import "time"

// Category categoría de artículos (dato de referencia, administrado fuera del kardex).
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Department departamento o área que recibe/entrega stock (dato de referencia).
type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
