package model

// Person represents a row of the `Person` table written by POST /insert.
type Person struct {
	Name string // Person.Name
}
