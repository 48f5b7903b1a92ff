// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Problems are aggregated so every failing collection is reported at once
and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	sets := []struct {
		name   string
		ensure func(context.Context, *mongo.Database) error
	}{
		{"contacts", ensureContacts},
		{"users", ensureUsers},
		{"audit_events", ensureAuditEvents},
	}

	var problems []string
	for _, s := range sets {
		if err := s.ensure(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureContacts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("contacts"), []mongo.IndexModel{
		// Email is the import upsert key; stored lowercase so this is
		// case-insensitive uniqueness.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_contacts_email"),
		},
		// Default list order.
		{
			Keys: bson.D{
				{Key: "last_name_ci", Value: 1},
				{Key: "first_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_contacts_lastci_firstci_id"),
		},
		{
			Keys:    bson.D{{Key: "institution_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_contacts_institutionci_id"),
		},
		{
			Keys:    bson.D{{Key: "country", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_contacts_country_id"),
		},
		// Date-range filters.
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_contacts_created_at"),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetName("idx_contacts_updated_at"),
		},
	})
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_usernameci"),
		},
		// Last-admin guard counts by role.
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("idx_users_role"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_category_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "actor", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_actor_timestamp"),
		},
	})
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return boolVal(a) == boolVal(b)
}

func boolVal(b *bool) bool {
	return b != nil && *b
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

// desired describes one index we want, extracted from a mongo.IndexModel.
type desired struct {
	model  mongo.IndexModel
	name   string
	unique *bool
	sig    string
}

func newDesired(m mongo.IndexModel) desired {
	d := desired{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = m.Options.Unique
	}
	return d
}

func (d desired) fields(coll *mongo.Collection, start time.Time) []zap.Field {
	return []zap.Field{
		zap.String("collection", coll.Name()),
		zap.String("name", d.name),
		zap.String("keys", d.sig),
		zap.Bool("unique", boolVal(d.unique)),
		zap.String("took", time.Since(start).String()),
	}
}

// listIndexes returns the collection's indexes keyed by key signature.
func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

// createErr formats a CreateOne failure, calling out duplicate data that
// blocks a unique index.
func createErr(coll *mongo.Collection, d desired, err error) string {
	if isDuplicateKeyErr(err) && boolVal(d.unique) {
		field := strings.SplitN(d.sig, ":", 2)[0]
		return fmt.Sprintf("%s(%s): cannot create unique index (duplicates present). Example finder:\n"+
			`db.%s.aggregate([{ $group: { _id: "$%s", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
			coll.Name(), d.name, coll.Name(), field)
	}
	return fmt.Sprintf("%s(%s): %v", coll.Name(), d.name, err)
}

// recreate drops ex and creates d in its place.
func recreate(ctx context.Context, coll *mongo.Collection, ex existingIndex, d desired) error {
	if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
		return fmt.Errorf("%s(%s): drop %s failed: %v", coll.Name(), d.name, ex.Name, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, d.model); err != nil {
		return errors.New(createErr(coll, d, err))
	}
	return nil
}

// reconcile makes one desired index exist with the wanted name and
// uniqueness.
func reconcile(ctx context.Context, coll *mongo.Collection, d desired) error {
	start := time.Now()
	zap.L().Info("ensuring index", d.fields(coll, start)[:4]...)

	if ex, ok := listIndexes(ctx, coll)[d.sig]; ok {
		switch {
		case !sameBoolPtr(d.unique, ex.Unique):
			// Options mismatch (e.g., upgrading to unique).
			if err := recreate(ctx, coll, ex, d); err != nil {
				return err
			}
			zap.L().Info("index dropped and recreated", d.fields(coll, start)...)
		case d.name != "" && ex.Name != d.name:
			zap.L().Info("renaming index to align with desired name",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", d.name))
			if err := recreate(ctx, coll, ex, d); err != nil {
				return err
			}
			zap.L().Info("index renamed", d.fields(coll, start)...)
		default:
			zap.L().Info("reusing existing index", d.fields(coll, start)...)
		}
		return nil
	}

	created, err := coll.Indexes().CreateOne(ctx, d.model)
	if err == nil {
		zap.L().Info("index ensured", append(d.fields(coll, start), zap.String("created_name", created))...)
		return nil
	}

	if isOptionsConflictErr(err) {
		if ex, ok := listIndexes(ctx, coll)[d.sig]; ok {
			if sameBoolPtr(d.unique, ex.Unique) {
				zap.L().Info("reusing existing index (post-conflict)", d.fields(coll, start)...)
				return nil
			}
			if rerr := recreate(ctx, coll, ex, d); rerr != nil {
				return rerr
			}
			zap.L().Info("index dropped and recreated (post-conflict)", d.fields(coll, start)...)
			return nil
		}
	}

	zap.L().Warn("index ensure failed", append(d.fields(coll, start), zap.Error(err))...)
	return errors.New(createErr(coll, d, err))
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		if err := reconcile(ctx, coll, newDesired(m)); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
