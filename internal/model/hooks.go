package model

import "github.com/google/uuid"

// asignarID fills a primary key before insert. Keys are generated in Go so the
// same models work on postgres and on the sqlite test database.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
