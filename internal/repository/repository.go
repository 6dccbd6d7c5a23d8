package repository

import (
	"context"
	"fmt"

	"stats-dashboard-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Órdenes (base principal). Solo lectura.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database, collection string) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(collection)}
}

// FindAll trae la colección completa; los filtros se aplican en memoria.
func (m *MongoOrderRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	return findAll(ctx, m.col, decodeOrder)
}

// Usuarios registrados (base principal). Solo lectura.
type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database, collection string) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(collection)}
}

func (m *MongoUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	return findAll(ctx, m.col, decodeUser)
}

// Eventos de trackeo (base secundaria). Solo lectura.
type MongoTrackingRepository struct {
	col *mongo.Collection
}

func NewMongoTrackingRepository(db *mongo.Database, collection string) *MongoTrackingRepository {
	return &MongoTrackingRepository{col: db.Collection(collection)}
}

func (m *MongoTrackingRepository) FindAll(ctx context.Context) ([]model.TrackingEvent, error) {
	return findAll(ctx, m.col, decodeTrackingEvent)
}

// Leads del formulario: la única escritura del servicio.
type MongoLeadRepository struct {
	col *mongo.Collection
}

func NewMongoLeadRepository(db *mongo.Database, collection string) *MongoLeadRepository {
	return &MongoLeadRepository{col: db.Collection(collection)}
}

// Insert agrega un documento. Sin reintentos ni control de duplicados.
func (m *MongoLeadRepository) Insert(ctx context.Context, lead *model.LeadRecord) error {
	if _, err := m.col.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("insert %s: %w", m.col.Name(), err)
	}
	return nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, decode func(bson.Raw) (T, error)) ([]T, error) {
	cur, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	defer cur.Close(ctx)

	var out []T
	for cur.Next(ctx) {
		v, err := decode(cur.Current)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
		}
		out = append(out, v)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor %s: %w", col.Name(), err)
	}
	return out, nil
}
