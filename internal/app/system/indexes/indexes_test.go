package indexes_test

import (
	"testing"

	"github.com/dalemusser/contacthub/internal/app/system/indexes"
	"github.com/dalemusser/contacthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, coll *mongo.Collection) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	// SetupTestDB already ran EnsureAll once.
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tests := []struct {
		collection string
		want       []string
	}{
		{"contacts", []string{
			"uniq_contacts_email",
			"idx_contacts_lastci_firstci_id",
			"idx_contacts_institutionci_id",
			"idx_contacts_country_id",
			"idx_contacts_created_at",
			"idx_contacts_updated_at",
		}},
		{"users", []string{"uniq_users_usernameci", "idx_users_role"}},
		{"audit_events", []string{
			"idx_audit_timestamp",
			"idx_audit_category_timestamp",
			"idx_audit_actor_timestamp",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			names := indexNames(t, db.Collection(tt.collection))
			for _, name := range tt.want {
				if !names[name] {
					t.Errorf("expected index %q to exist on %s", name, tt.collection)
				}
			}
		})
	}
}

func TestEnsureAll_RenamesMisnamedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("contacts")
	if _, err := coll.Indexes().DropOne(ctx, "idx_contacts_country_id"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "country", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("legacy_country"),
	}); err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, coll)
	if !names["idx_contacts_country_id"] || names["legacy_country"] {
		t.Errorf("expected legacy_country to be renamed, got %v", names)
	}
}

func TestEnsureAll_UniqueEmailEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("contacts")
	if _, err := coll.InsertOne(ctx, bson.M{"_id": int64(1), "email": "dup@example.org"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := coll.InsertOne(ctx, bson.M{"_id": int64(2), "email": "dup@example.org"}); err == nil {
		t.Error("expected duplicate email insert to fail")
	}
}
