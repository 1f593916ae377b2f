package graph

import "fmt"

// notFoundError is returned when an id does not resolve to a record. It surfaces
// as a request-level GraphQL error.
type notFoundError struct {
	id string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("Couldn't find User with 'id'=%s", e.id)
}

func (notFoundError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "NOT_FOUND"}
}

// internalError hides store failures from clients; details are logged instead.
type internalError struct{}

func (internalError) Error() string {
	return "internal error"
}

func (internalError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "INTERNAL"}
}

var errInternal = internalError{}
