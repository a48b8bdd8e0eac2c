// Package models holds the plain data records persisted by the repositories.
package models

import "fmt"

// Person is a stored person record.
//
// ID is the store-generated identity; zero means the record has not been
// persisted yet. Name, City and House form the natural key, which the store
// keeps unique.
type Person struct {
	ID    int64
	Name  string
	City  string
	House string
}

// NewPerson returns a not-yet-persisted Person.
func NewPerson(name, city, house string) Person {
	return Person{Name: name, City: city, House: house}
}

// HasID reports whether the person carries a store identity.
func (p Person) HasID() bool {
	return p.ID != 0
}

// WithID returns a copy of p carrying the given identity.
func (p Person) WithID(id int64) Person {
	p.ID = id
	return p
}

// Equal compares the natural key only; identities are ignored.
func (p Person) Equal(other Person) bool {
	return p.Name == other.Name && p.City == other.City && p.House == other.House
}

func (p Person) String() string {
	return fmt.Sprintf("%s, %s, %s", p.Name, p.City, p.House)
}
