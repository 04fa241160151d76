package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	menuItemsCollection    = "menuitems"
	categoriesCollection   = "categories"
	specialItemsCollection = "specialitems"
	settingsCollection     = "settings"
	specialsScheduleID     = "specialItemsSchedule"
)

// ConnectMongo dials uri and verifies the primary is reachable
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}
	return client, nil
}

// MongoCatalog reads menu items, categories, specials and the specials window from MongoDB
type MongoCatalog struct {
	db       *mongo.Database
	fallback models.TimeWindow
}

// NewMongoCatalog creates a catalog over db. fallback is used as the specials
// window when the settings collection has none.
func NewMongoCatalog(db *mongo.Database, fallback models.TimeWindow) *MongoCatalog {
	return &MongoCatalog{db: db, fallback: fallback}
}

type specialsSchedule struct {
	ID        string `bson:"_id"`
	StartTime string `bson:"startTime"`
	EndTime   string `bson:"endTime"`
}

func (c *MongoCatalog) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{}

	if err := c.findAll(ctx, menuItemsCollection, &snap.Items); err != nil {
		return nil, err
	}
	if err := c.findAll(ctx, categoriesCollection, &snap.Categories); err != nil {
		return nil, err
	}
	if err := c.findAll(ctx, specialItemsCollection, &snap.Specials); err != nil {
		return nil, err
	}
	sort.SliceStable(snap.Categories, func(i, j int) bool {
		return snap.Categories[i].SortOrder < snap.Categories[j].SortOrder
	})

	var sched specialsSchedule
	err := c.db.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": specialsScheduleID}).Decode(&sched)
	switch {
	case err == nil:
		snap.SpecialsWindow = models.TimeWindow{StartTime: sched.StartTime, EndTime: sched.EndTime}
	case errors.Is(err, mongo.ErrNoDocuments):
		snap.SpecialsWindow = c.fallback
	default:
		return nil, fmt.Errorf("failed to load specials schedule: %w", err)
	}
	return snap, nil
}

func (c *MongoCatalog) findAll(ctx context.Context, collection string, out any) error {
	cursor, err := c.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}
