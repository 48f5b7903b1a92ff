// internal/app/store/contacts/search.go
package contactstore

import (
	"context"

	"github.com/dalemusser/contacthub/internal/app/system/contactsearch"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindAll returns every contact ordered by sort (the default order when
// sort is empty).
func (s *Store) FindAll(ctx context.Context, sort contactsearch.Sort) ([]models.Contact, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(sort.BSON()))
}

// Search returns every contact matching c. An empty criteria behaves
// exactly like FindAll.
func (s *Store) Search(ctx context.Context, c contactsearch.Criteria, sort contactsearch.Sort) ([]models.Contact, error) {
	return s.find(ctx, c.Filter(), options.Find().SetSort(sort.BSON()))
}

// SearchPage returns one page of contacts matching c together with the
// total match count.
func (s *Store) SearchPage(ctx context.Context, c contactsearch.Criteria, req contactsearch.PageRequest) (contactsearch.Page, error) {
	req = req.Normalized()
	filter := c.Filter()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return contactsearch.Page{}, err
	}

	opts := options.Find().
		SetSort(req.Sort.BSON()).
		SetSkip(req.Skip()).
		SetLimit(int64(req.Size))
	items, err := s.find(ctx, filter, opts)
	if err != nil {
		return contactsearch.Page{}, err
	}
	return contactsearch.NewPage(items, req, total), nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Contact, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Contact{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
