package contactsearch_test

import (
	"sort"
	"testing"

	"github.com/dalemusser/contacthub/internal/app/system/contactsearch"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func ids(cs []models.Contact) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestDefaultSort_TieBreaksOnID(t *testing.T) {
	cs := []models.Contact{
		{ID: 5, FirstName: "Ann", LastName: "Lee"},
		{ID: 2, FirstName: "Ann", LastName: "Lee"},
		{ID: 9, FirstName: "Ann", LastName: "Lee"},
	}
	s := contactsearch.DefaultSort()
	sort.SliceStable(cs, func(i, j int) bool { return s.Less(cs[i], cs[j]) })
	assert.Equal(t, []int64{2, 5, 9}, ids(cs))
}

func TestDefaultSort_CaseInsensitiveNames(t *testing.T) {
	cs := []models.Contact{
		{ID: 1, FirstName: "bob", LastName: "smith"},
		{ID: 2, FirstName: "Amy", LastName: "Smith"},
		{ID: 3, FirstName: "Zed", LastName: "adams"},
	}
	var s contactsearch.Sort
	sort.SliceStable(cs, func(i, j int) bool { return s.Less(cs[i], cs[j]) })
	assert.Equal(t, []int64{3, 2, 1}, ids(cs))
}

func TestParseSort(t *testing.T) {
	got := contactsearch.ParseSort([]string{"country,desc", "bogus,asc", "email", "country,asc"})
	assert.Equal(t, contactsearch.Sort{
		{Name: "country", Column: "country", Desc: true},
		{Name: "email", Column: "email"},
	}, got)
}

func TestSortBSON_AppendsIDTieBreak(t *testing.T) {
	s := contactsearch.ParseSort([]string{"institution,desc"})
	assert.Equal(t, bson.D{
		{Key: "institution_ci", Value: -1},
		{Key: "_id", Value: 1},
	}, s.BSON())
}

func TestSortBSON_DefaultWhenEmpty(t *testing.T) {
	var s contactsearch.Sort
	assert.Equal(t, bson.D{
		{Key: "last_name_ci", Value: 1},
		{Key: "first_name_ci", Value: 1},
		{Key: "_id", Value: 1},
	}, s.BSON())
}

func TestSortBSON_ExplicitIDNotDuplicated(t *testing.T) {
	s := contactsearch.ParseSort([]string{"id,desc"})
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, s.BSON())
}

func TestSortParams_RoundTrip(t *testing.T) {
	in := []string{"lastName,desc", "createdAt,asc"}
	assert.Equal(t, in, contactsearch.ParseSort(in).Params())
}
