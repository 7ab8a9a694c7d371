package models

// ItemType discriminates the two catalog entity kinds that reviews,
// images and transactions can reference. Lookups always dispatch on it
// explicitly; there is no untyped polymorphic join.
type ItemType string

const (
	ItemTypeBook ItemType = "book"
	ItemTypeNote ItemType = "note"
)

// ValidItemType reports whether t is a known catalog entity kind.
func ValidItemType(t ItemType) bool {
	return t == ItemTypeBook || t == ItemTypeNote
}
