package bookingrecord

import (
	"context"
	"fmt"

	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/mystore"
)

//go:generate mockgen -source=store.go -package bookingrecord -destination store_mock.go Store
type Store interface {
	// Create fails with a conflict when a record with the same confirmation code exists
	Create(c context.Context, record BookingRecord) error
	// ListByUser returns the newest record first
	ListByUser(c context.Context, userID string) ([]BookingRecord, error)
}

type documentStore struct {
	store mystore.Store[BookingRecord]
}

func NewDocumentStore(store mystore.Store[BookingRecord]) Store {
	return &documentStore{
		store: store,
	}
}

func (s *documentStore) Create(c context.Context, record BookingRecord) error {
	return s.store.RunInTransaction(c, func(c context.Context) error {
		_, found, err := s.store.Get(c, record.ConfirmationCode)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if found {
			return myerrors.NewConflictError(fmt.Errorf("booking record %s already exists", record.ConfirmationCode))
		}

		err = s.store.Put(c, record.ConfirmationCode, record)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
}

// ListByUser needs the composite index declared in index.yaml
func (s *documentStore) ListByUser(c context.Context, userID string) ([]BookingRecord, error) {
	records, err := s.store.Query(c, []mystore.Filter{{Field: "UserID", Compare: mystore.CompareEqual, Value: userID}}, "-CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}
	return records, nil
}
