package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pixelcraft/agency-api/internal/types"
)

// ============================================
// MongoDB Repository Implementations
// ============================================

const (
	usersCollection    = "users"
	projectsCollection = "projects"
	contactsCollection = "contacts"
)

// NewMongoRepositories wires the MongoDB-backed repositories and makes sure
// the unique indexes exist.
func NewMongoRepositories(ctx context.Context, db *mongo.Database) (*Repositories, error) {
	if err := EnsureMongoIndexes(ctx, db); err != nil {
		return nil, err
	}
	return &Repositories{
		UserRepo:    &mongoUserRepository{coll: db.Collection(usersCollection)},
		ProjectRepo: &mongoProjectRepository{coll: db.Collection(projectsCollection)},
		ContactRepo: &mongoContactRepository{coll: db.Collection(contactsCollection)},
		Health:      mongoHealth{client: db.Client()},
	}, nil
}

// EnsureMongoIndexes creates the indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		projectsCollection: {
			{Keys: bson.D{{Key: "seo.slug", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "featured", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		contactsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "followUp.scheduled", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

type mongoHealth struct {
	client *mongo.Client
}

func (h mongoHealth) Ping(ctx context.Context) error {
	return h.client.Ping(ctx, nil)
}

func mapMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func findOptions(page Page, columns map[string]string) *options.FindOptionsBuilder {
	sort := bson.D{}
	for _, f := range page.Sort {
		key, ok := columns[f.Field]
		if !ok {
			continue
		}
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: key, Value: dir})
	}
	if len(sort) == 0 {
		sort = append(sort, bson.E{Key: "createdAt", Value: -1})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	opts := options.Find().SetSort(sort).SetSkip(int64(page.Skip))
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	return opts
}

func mongoGroupCounts(ctx context.Context, coll *mongo.Collection, field string) ([]GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, UnspecifiedKey}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	groups := make([]GroupCount, 0, len(rows))
	for _, r := range rows {
		key := r.Key
		if key == "" {
			key = UnspecifiedKey
		}
		groups = append(groups, GroupCount{Key: key, Count: r.Count})
	}
	return groups, nil
}

func countSince(ctx context.Context, coll *mongo.Collection, since time.Time) (int64, error) {
	return coll.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}

// ============================================
// Mongo User Repository
// ============================================

type userDoc struct {
	OID  bson.ObjectID `bson:"_id,omitempty"`
	User `bson:",inline"`
}

func (d *userDoc) entity() *User {
	u := d.User
	u.ID = d.OID.Hex()
	return &u
}

var userMongoSort = map[string]string{
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"name":      "name",
	"email":     "email",
	"role":      "role",
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

func (r *mongoUserRepository) Create(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	doc := userDoc{OID: bson.NewObjectID(), User: *user}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapMongoError(err)
	}
	user.ID = doc.OID.Hex()
	return nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter any) (*User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.entity(), nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *mongoUserRepository) List(ctx context.Context, page Page) ([]*User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, findOptions(page, userMongoSort))
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]*User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].entity())
	}
	return users, nil
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *mongoUserRepository) Update(ctx context.Context, user *User) error {
	oid, err := objectID(user.ID)
	if err != nil {
		return err
	}
	user.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":            user.Name,
		"email":           user.Email,
		"role":            user.Role,
		"avatar":          user.Avatar,
		"isEmailVerified": user.IsEmailVerified,
		"updatedAt":       user.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================
// Mongo Project Repository
// ============================================

type projectDoc struct {
	OID     bson.ObjectID `bson:"_id,omitempty"`
	Project `bson:",inline"`
}

func (d *projectDoc) entity() *Project {
	p := d.Project
	p.ID = d.OID.Hex()
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return &p
}

var projectMongoSort = map[string]string{
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"title":     "title",
	"category":  "category",
	"status":    "status",
	"featured":  "featured",
	"views":     "metrics.views",
	"likes":     "metrics.likes",
}

func projectMongoFilter(filter ProjectFilter) bson.M {
	m := bson.M{}
	if filter.Category != "" {
		m["category"] = filter.Category
	}
	if filter.Status != "" {
		m["status"] = filter.Status
	}
	if filter.Featured != nil {
		m["featured"] = *filter.Featured
	}
	if filter.Technology != "" {
		m["technologies"] = bson.Regex{Pattern: "^" + regexp.QuoteMeta(filter.Technology) + "$", Options: "i"}
	}
	return m
}

type mongoProjectRepository struct {
	coll *mongo.Collection
}

func (r *mongoProjectRepository) Create(ctx context.Context, project *Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Technologies == nil {
		project.Technologies = []string{}
	}
	doc := projectDoc{OID: bson.NewObjectID(), Project: *project}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapMongoError(err)
	}
	project.ID = doc.OID.Hex()
	return nil
}

func (r *mongoProjectRepository) findOne(ctx context.Context, filter any) (*Project, error) {
	var doc projectDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.entity(), nil
}

func (r *mongoProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoProjectRepository) FindBySlug(ctx context.Context, slug string) (*Project, error) {
	return r.findOne(ctx, bson.M{"seo.slug": slug})
}

func (r *mongoProjectRepository) List(ctx context.Context, filter ProjectFilter, page Page) ([]*Project, error) {
	cursor, err := r.coll.Find(ctx, projectMongoFilter(filter), findOptions(page, projectMongoSort))
	if err != nil {
		return nil, err
	}
	var docs []projectDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	projects := make([]*Project, 0, len(docs))
	for i := range docs {
		projects = append(projects, docs[i].entity())
	}
	return projects, nil
}

func (r *mongoProjectRepository) Count(ctx context.Context, filter ProjectFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, projectMongoFilter(filter))
}

func (r *mongoProjectRepository) Update(ctx context.Context, project *Project) error {
	oid, err := objectID(project.ID)
	if err != nil {
		return err
	}
	project.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":               project.Title,
		"description":         project.Description,
		"fullDescription":     project.FullDescription,
		"technologies":        project.Technologies,
		"category":            project.Category,
		"status":              project.Status,
		"featured":            project.Featured,
		"images":              project.Images,
		"links":               project.Links,
		"client":              project.Client,
		"timeline":            project.Timeline,
		"seo.metaTitle":       project.SEO.MetaTitle,
		"seo.metaDescription": project.SEO.MetaDescription,
		"updatedAt":           project.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if project.SEO.Slug != nil {
		set["seo.slug"] = *project.SEO.Slug
	} else {
		update["$unset"] = bson.M{"seo.slug": ""}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProjectRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProjectRepository) increment(ctx context.Context, filter bson.M, field string) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc projectDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{field: 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, mapMongoError(err)
	}
	if field == "metrics.likes" {
		return doc.Metrics.Likes, nil
	}
	return doc.Metrics.Views, nil
}

func (r *mongoProjectRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}
	return r.increment(ctx, bson.M{"_id": oid}, "metrics.views")
}

func (r *mongoProjectRepository) IncrementLikes(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}
	return r.increment(ctx, bson.M{"_id": oid, "status": types.ProjectPublished}, "metrics.likes")
}

func (r *mongoProjectRepository) CountBy(ctx context.Context, field string) ([]GroupCount, error) {
	if !contains(ProjectGroupFields, field) {
		return nil, ErrConstraint
	}
	return mongoGroupCounts(ctx, r.coll, field)
}

func (r *mongoProjectRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return countSince(ctx, r.coll, since)
}

func (r *mongoProjectRepository) SumMetrics(ctx context.Context) (ProjectMetrics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "views", Value: bson.D{{Key: "$sum", Value: "$metrics.views"}}},
			{Key: "likes", Value: bson.D{{Key: "$sum", Value: "$metrics.likes"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return ProjectMetrics{}, err
	}
	var rows []ProjectMetrics
	if err := cursor.All(ctx, &rows); err != nil {
		return ProjectMetrics{}, err
	}
	if len(rows) == 0 {
		return ProjectMetrics{}, nil
	}
	return rows[0], nil
}

// ============================================
// Mongo Contact Repository
// ============================================

type contactDoc struct {
	OID     bson.ObjectID `bson:"_id,omitempty"`
	Contact `bson:",inline"`
}

func (d *contactDoc) entity() *Contact {
	c := d.Contact
	c.ID = d.OID.Hex()
	if c.Notes.Internal == nil {
		c.Notes.Internal = []Note{}
	}
	if c.Notes.Client == nil {
		c.Notes.Client = []Note{}
	}
	return &c
}

var contactMongoSort = map[string]string{
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"name":      "name",
	"email":     "email",
	"status":    "status",
	"priority":  "priority",
}

func contactMongoFilter(filter ContactFilter) bson.M {
	m := bson.M{}
	if filter.Status != "" {
		m["status"] = filter.Status
	}
	if filter.Priority != "" {
		m["priority"] = filter.Priority
	}
	if filter.ProjectType != "" {
		m["projectType"] = filter.ProjectType
	}
	if filter.Source != "" {
		m["source"] = filter.Source
	}
	return m
}

type mongoContactRepository struct {
	coll *mongo.Collection
}

func (r *mongoContactRepository) decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]*Contact, error) {
	var docs []contactDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	contacts := make([]*Contact, 0, len(docs))
	for i := range docs {
		contacts = append(contacts, docs[i].entity())
	}
	return contacts, nil
}

func (r *mongoContactRepository) Create(ctx context.Context, contact *Contact) error {
	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	contact.Notes.Internal = notesOrEmpty(contact.Notes.Internal)
	contact.Notes.Client = notesOrEmpty(contact.Notes.Client)
	doc := contactDoc{OID: bson.NewObjectID(), Contact: *contact}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapMongoError(err)
	}
	contact.ID = doc.OID.Hex()
	return nil
}

func (r *mongoContactRepository) FindByID(ctx context.Context, id string) (*Contact, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc contactDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.entity(), nil
}

func (r *mongoContactRepository) List(ctx context.Context, filter ContactFilter, page Page) ([]*Contact, error) {
	cursor, err := r.coll.Find(ctx, contactMongoFilter(filter), findOptions(page, contactMongoSort))
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cursor)
}

func (r *mongoContactRepository) Count(ctx context.Context, filter ContactFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, contactMongoFilter(filter))
}

func (r *mongoContactRepository) Update(ctx context.Context, contact *Contact) error {
	oid, err := objectID(contact.ID)
	if err != nil {
		return err
	}
	contact.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":           contact.Name,
		"email":          contact.Email,
		"phone":          contact.Phone,
		"company":        contact.Company,
		"subject":        contact.Subject,
		"message":        contact.Message,
		"projectType":    contact.ProjectType,
		"budget":         contact.Budget,
		"timeline":       contact.Timeline,
		"status":         contact.Status,
		"priority":       contact.Priority,
		"source":         contact.Source,
		"notes.internal": notesOrEmpty(contact.Notes.Internal),
		"notes.client":   notesOrEmpty(contact.Notes.Client),
		"followUp":       contact.FollowUp,
		"updatedAt":      contact.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoContactRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoContactRepository) CountBy(ctx context.Context, field string) ([]GroupCount, error) {
	if !contains(ContactGroupFields, field) {
		return nil, ErrConstraint
	}
	return mongoGroupCounts(ctx, r.coll, field)
}

func (r *mongoContactRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return countSince(ctx, r.coll, since)
}

func (r *mongoContactRepository) FindOverdueFollowUps(ctx context.Context, now time.Time) ([]*Contact, error) {
	filter := bson.M{
		"followUp.scheduled": bson.M{"$lt": now},
		"followUp.completed": false,
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "followUp.scheduled", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cursor)
}
