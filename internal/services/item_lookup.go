package services

import (
	"github.com/shopspring/decimal"

	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
)

// itemRef is the resolved form of a typed catalog reference: enough
// of a book or note to review it or buy it, without caring which
// variant it is beyond the tag.
type itemRef struct {
	SellerID    string
	Price       decimal.Decimal
	Quantity    int
	IsAvailable bool
}

// resolveItem dispatches a typed item reference to the matching
// repository. An unknown item type is a validation error; a missing
// item surfaces as ErrNotFound.
func resolveItem(books repositories.BookRepository, notes repositories.NoteRepository, itemType models.ItemType, itemID string) (*itemRef, error) {
	switch itemType {
	case models.ItemTypeBook:
		book, err := books.GetByID(itemID)
		if err != nil {
			return nil, err
		}
		return &itemRef{
			SellerID:    book.SellerID,
			Price:       book.Price,
			Quantity:    book.Quantity,
			IsAvailable: book.IsAvailable,
		}, nil
	case models.ItemTypeNote:
		note, err := notes.GetByID(itemID)
		if err != nil {
			return nil, err
		}
		return &itemRef{
			SellerID:    note.SellerID,
			Price:       note.Price,
			Quantity:    note.Quantity,
			IsAvailable: note.IsAvailable,
		}, nil
	default:
		return nil, domain.Validationf("item_type must be book or note")
	}
}
