// Package app opens the stores and clients shared by the server and worker
// binaries according to config.
package app

import (
	"context"
	"fmt"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/config"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/logging"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/store"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

// Stores is the persistence a process runs against
type Stores struct {
	Sessions store.SessionStore
	Orders   store.OrderStore
	Catalog  store.CatalogSource

	closers []func()
}

// Close releases database connections
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// OpenStores connects Postgres when DATABASE_URL is set and MongoDB when
// MONGO_URI is set. Anything unset falls back to memory.
func OpenStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Stores, error) {
	s := &Stores{}

	if cfg.DatabaseURL != "" {
		pool, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.Sessions = store.NewPostgresSessionStore(pool)
		s.Orders = store.NewPostgresOrderStore(pool)
		logger.Info("using postgres stores")
	} else {
		s.Sessions = store.NewMemorySessionStore()
		s.Orders = store.NewMemoryOrderStore()
		logger.Warn("DATABASE_URL not set, sessions and orders are kept in memory")
	}

	catalog, err := openCatalog(ctx, cfg, s, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Catalog = catalog
	return s, nil
}

func openCatalog(ctx context.Context, cfg config.Config, s *Stores, logger *zap.Logger) (store.CatalogSource, error) {
	if cfg.MongoURI != "" {
		mc, err := store.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = mc.Disconnect(context.Background()) })
		logger.Info("using mongo catalog", zap.String("database", cfg.MongoDatabase))
		fallback := models.TimeWindow{StartTime: cfg.SpecialsStart, EndTime: cfg.SpecialsEnd}
		return store.NewMongoCatalog(mc.Database(cfg.MongoDatabase), fallback), nil
	}

	snap := &models.Snapshot{}
	if cfg.CatalogFile != "" {
		loaded, err := store.LoadSnapshotFile(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		snap = loaded
		logger.Info("loaded catalog file",
			zap.String("path", cfg.CatalogFile),
			zap.Int("items", len(snap.Items)),
			zap.Int("specials", len(snap.Specials)))
	} else {
		logger.Warn("no MONGO_URI or CATALOG_FILE, serving an empty menu")
	}
	if snap.SpecialsWindow.StartTime == "" {
		snap.SpecialsWindow = models.TimeWindow{StartTime: cfg.SpecialsStart, EndTime: cfg.SpecialsEnd}
	}
	return store.NewStaticCatalog(snap), nil
}

// NewMessenger builds the WhatsApp Cloud API client
func NewMessenger(cfg config.Config, logger *zap.Logger) *transport.WhatsAppClient {
	return transport.NewWhatsAppClient(cfg.WhatsAppBaseURL, cfg.WhatsAppPhoneID, cfg.WhatsAppToken, logger)
}

// DialTemporal connects to the Temporal frontend with logs routed through zap
func DialTemporal(cfg config.Config, logger *zap.Logger) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort: cfg.TemporalAddress,
		Logger:   logging.NewTemporalLogger(logger.Named("temporal")),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create Temporal client: %w", err)
	}
	return c, nil
}
