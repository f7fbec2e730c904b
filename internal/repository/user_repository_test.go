package repository

import (
	"errors"
	"testing"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := errors.New("Error 1062 (23000): Duplicate entry 'ana@vitta.fit' for key 'usuarios.uq_usuarios_email'")
	if !isDuplicateKey(dup) {
		t.Fatalf("1062 error not recognized as duplicate key")
	}
	for _, err := range []error{
		errors.New("Error 1146 (42S02): Table 'vitta.usuarioss' doesn't exist"),
		errors.New("driver: bad connection"),
	} {
		if isDuplicateKey(err) {
			t.Fatalf("%v wrongly classified as duplicate key", err)
		}
	}
}
