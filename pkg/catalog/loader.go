package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/raqeebanjum/seniordesignproject/database/postgres"
	"github.com/raqeebanjum/seniordesignproject/database/sqlite"
	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"github.com/raqeebanjum/seniordesignproject/pkg/s3"
	"github.com/sirupsen/logrus"
)

var ErrNoSource = errors.New("no catalog source configured")

// Load reads the catalog named by source: a local .json/.yaml file, an
// s3://bucket/key object, a postgres:// DSN, or a SQLite database
// (sqlite://path or a .db/.sqlite file). It never fails; on any error
// it logs once and returns an empty catalog, so every lookup misses.
func Load(ctx context.Context, log *logrus.Logger, source string) *Catalog {
	orders, err := fetch(ctx, source)
	if err != nil {
		log.WithFields(logrus.Fields{
			"source": redact(source),
			"error":  err.Error(),
		}).Error("Failed to load purchase order catalog, continuing with an empty catalog")
		return Empty()
	}

	c := New(orders...)
	log.WithFields(logrus.Fields{
		"source":          redact(source),
		"purchase_orders": c.Len(),
	}).Info("Purchase order catalog loaded")

	return c
}

func fetch(ctx context.Context, source string) ([]entity.PurchaseOrder, error) {
	switch {
	case source == "":
		return nil, ErrNoSource
	case strings.HasPrefix(source, "s3://"):
		return fetchS3(ctx, source)
	case strings.HasPrefix(source, "postgres://"), strings.HasPrefix(source, "postgresql://"):
		return fetchPostgres(ctx, source)
	case strings.HasPrefix(source, "sqlite://"):
		return fetchSQLite(ctx, strings.TrimPrefix(source, "sqlite://"))
	case isSQLiteFile(source):
		return fetchSQLite(ctx, source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		return Parse(source, data)
	}
}

func fetchS3(ctx context.Context, uri string) ([]entity.PurchaseOrder, error) {
	bucket, key, err := s3.ParseURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := s3.New()
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	data, err := client.Download(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	return Parse(key, data)
}

func fetchPostgres(ctx context.Context, dsn string) ([]entity.PurchaseOrder, error) {
	db, err := postgres.New(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return FetchFromDB(ctx, db)
}

func fetchSQLite(ctx context.Context, file string) ([]entity.PurchaseOrder, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	db, err := sqlite.New(file)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return FetchFromDB(ctx, db)
}

func isSQLiteFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// redact hides credentials of DSN-style sources before logging.
func redact(source string) string {
	at := strings.LastIndex(source, "@")
	scheme := strings.Index(source, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return source
	}
	return source[:scheme+3] + "***" + source[at:]
}
