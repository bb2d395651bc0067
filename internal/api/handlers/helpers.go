package handlers

import "fmt"

func errMissing(field string) error {
	return fmt.Errorf("missing required field %s", field)
}

func errShape(msg string) error {
	return fmt.Errorf("invalid post: %s", msg)
}
