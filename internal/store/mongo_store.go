package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"
)

// EmployeeCollection is the MongoDB collection holding employee documents
const EmployeeCollection = "employees"

// employeeDocument is the BSON shape of an employee
type employeeDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password,omitempty"`
	Age        int                `bson:"age"`
	Class      string             `bson:"class"`
	Subjects   []string           `bson:"subjects"`
	Attendance float64            `bson:"attendance"`
	Role       string             `bson:"role"`
	Flagged    bool               `bson:"flagged"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d employeeDocument) toModel() models.Employee {
	return models.Employee{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Age:          d.Age,
		Class:        d.Class,
		Subjects:     d.Subjects,
		Attendance:   d.Attendance,
		Role:         models.Role(d.Role),
		Flagged:      d.Flagged,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

var withoutPassword = bson.M{"password": 0}

// MongoEmployeeStore keeps employees as documents in a MongoDB collection
type MongoEmployeeStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoEmployeeStore creates a store over the employees collection of db
func NewMongoEmployeeStore(db *mongo.Database) *MongoEmployeeStore {
	return &MongoEmployeeStore{
		coll: db.Collection(EmployeeCollection),
		// BSON dates carry millisecond precision
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *MongoEmployeeStore) Migrate(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "class", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create employee indexes: %w", err)
	}
	return nil
}

func (s *MongoEmployeeStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (s *MongoEmployeeStore) List(ctx context.Context, q models.ListQuery) ([]models.Employee, int64, error) {
	filter := mongoListFilter(q.Filter)
	findOpts := options.Find().
		SetSort(mongoSort(q.Sort)).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit)).
		SetProjection(withoutPassword)

	var (
		docs  []employeeDocument
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := s.coll.Find(gctx, filter, findOpts)
		if err != nil {
			return err
		}
		return cursor.All(gctx, &docs)
	})
	g.Go(func() error {
		n, err := s.coll.CountDocuments(gctx, filter)
		total = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	employees := make([]models.Employee, 0, len(docs))
	for _, d := range docs {
		employees = append(employees, d.toModel())
	}
	return employees, total, nil
}

// mongoListFilter builds the query document for a listing
func mongoListFilter(f models.EmployeeFilter) bson.M {
	filter := bson.M{}
	if f.Role != nil {
		filter["role"] = string(*f.Role)
	}
	if f.Class != nil {
		filter["class"] = *f.Class
	}
	if f.Flagged != nil {
		filter["flagged"] = *f.Flagged
	}
	if f.Search != "" {
		// QuoteMeta keeps the search a literal substring rather than a user-supplied pattern
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
			bson.M{"class": re},
			bson.M{"subjects": re},
		}
	}
	return filter
}

// mongoSort orders by the requested field with _id as the tiebreaker
func mongoSort(s models.Sort) bson.D {
	field := s.Field
	if _, ok := field.Column(); !ok {
		field = models.DefaultSort.Field
	}
	direction := 1
	if s.Desc {
		direction = -1
	}
	return bson.D{{Key: string(field), Value: direction}, {Key: "_id", Value: direction}}
}

func (s *MongoEmployeeStore) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(withoutPassword))
}

func (s *MongoEmployeeStore) FindByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return nil, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(withoutPassword))
	if err != nil {
		return nil, fmt.Errorf("find employees by id: %w", err)
	}
	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}

	employees := make([]models.Employee, 0, len(docs))
	for _, d := range docs {
		employees = append(employees, d.toModel())
	}
	return employees, nil
}

func (s *MongoEmployeeStore) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return s.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (s *MongoEmployeeStore) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Employee, error) {
	var doc employeeDocument
	err := s.coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	employee := doc.toModel()
	return &employee, nil
}

func (s *MongoEmployeeStore) Create(ctx context.Context, employee *models.Employee) error {
	now := s.now()
	doc := employeeDocument{
		ID:         primitive.NewObjectID(),
		Name:       employee.Name,
		Email:      employee.Email,
		Password:   employee.PasswordHash,
		Age:        employee.Age,
		Class:      employee.Class,
		Subjects:   employee.Subjects,
		Attendance: employee.Attendance,
		Role:       string(employee.Role),
		Flagged:    employee.Flagged,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if doc.Subjects == nil {
		doc.Subjects = []string{}
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create employee: %w", err)
	}

	employee.ID = doc.ID.Hex()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	return nil
}

func (s *MongoEmployeeStore) Update(ctx context.Context, employee *models.Employee) error {
	oid, err := primitive.ObjectIDFromHex(employee.ID)
	if err != nil {
		return ErrNotFound
	}

	now := s.now()
	subjects := employee.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":       employee.Name,
		"age":        employee.Age,
		"class":      employee.Class,
		"subjects":   subjects,
		"attendance": employee.Attendance,
		"role":       string(employee.Role),
		"flagged":    employee.Flagged,
		"updatedAt":  now,
	}})
	if err != nil {
		return fmt.Errorf("update employee %s: %w", employee.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	employee.UpdatedAt = now
	return nil
}

func (s *MongoEmployeeStore) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete employee %s: %w", id, err)
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoEmployeeStore) DeleteAll(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{})
	return err
}
