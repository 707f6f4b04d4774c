package settingsstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/willibrandon/goslm/settings"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// MySQLScheme prefixes DSNs that OpenDB hands to the MySQL driver
const MySQLScheme = "mysql://"

const (
	kindNameString = "string"
	kindNameUint32 = "uint32"
)

// Collection is one row per settings collection
type Collection struct {
	Path   string `gorm:"primaryKey;size:512"`
	Parent string `gorm:"size:512;index"`
}

// TableName implements gorm's tabler
func (Collection) TableName() string { return "settings_collections" }

// Property is one row per property of a collection
type Property struct {
	Collection  string `gorm:"primaryKey;size:512"`
	Name        string `gorm:"primaryKey;size:255"`
	Kind        string `gorm:"size:8;not null"`
	StringValue string `gorm:"type:text"`
	UintValue   uint32
}

// TableName implements gorm's tabler
func (Property) TableName() string { return "settings_properties" }

// DBStore is a WritableStore kept in a SQL database through gorm
type DBStore struct {
	db *gorm.DB
}

// OpenDB opens a database and migrates the settings tables. A DSN starting
// with "mysql://" is passed to the MySQL driver without the scheme, e.g.
// "mysql://root@tcp(127.0.0.1:3306)/goslm?parseTime=true". Anything else is a
// sqlite file path or ":memory:".
func OpenDB(dsn string) (*DBStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("settingsstore: empty DSN")
	}

	var dialector gorm.Dialector
	isSQLite := !strings.HasPrefix(dsn, MySQLScheme)
	if isSQLite {
		dialector = sqlite.Open(dsn)
	} else {
		dialector = mysql.Open(strings.TrimPrefix(dsn, MySQLScheme))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("settingsstore: open %s: %w", redactDSN(dsn), err)
	}

	if isSQLite {
		// Every sqlite connection to ":memory:" is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("settingsstore: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return NewDBStore(db)
}

// mysqlTableOptions gives the settings tables a binary collation so that
// collection paths and property names compare case-sensitively, as they do
// in sqlite.
const mysqlTableOptions = "DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// tableOptions returns the CREATE TABLE options for the given dialect.
func tableOptions(dialect string) string {
	if dialect == "mysql" {
		return mysqlTableOptions
	}
	return ""
}

// NewDBStore wraps an open gorm connection and migrates the settings tables
func NewDBStore(db *gorm.DB) (*DBStore, error) {
	migrator := db
	if opts := tableOptions(db.Dialector.Name()); opts != "" {
		migrator = db.Set("gorm:table_options", opts)
	}
	if err := migrator.AutoMigrate(&Collection{}, &Property{}); err != nil {
		return nil, fmt.Errorf("settingsstore: auto-migrate: %w", err)
	}
	return &DBStore{db: db}, nil
}

// Close closes the underlying database connection
func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CollectionExists implements settings.WritableStore
func (s *DBStore) CollectionExists(collection string) (bool, error) {
	var n int64
	if err := s.db.Model(&Collection{}).Where("path = ?", collection).Count(&n).Error; err != nil {
		return false, fmt.Errorf("settingsstore: collection %s: %w", collection, err)
	}
	return n > 0, nil
}

// CreateCollection implements settings.WritableStore
func (s *DBStore) CreateCollection(collection string) error {
	if collection == "" {
		return fmt.Errorf("settingsstore: collection path is empty")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return createCollection(tx, collection)
	})
}

func createCollection(tx *gorm.DB, collection string) error {
	for c := collection; c != ""; c = settings.ParentCollection(c) {
		row := Collection{Path: c, Parent: settings.ParentCollection(c)}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("settingsstore: create collection %s: %w", c, err)
		}
	}
	return nil
}

// DeleteCollection implements settings.WritableStore
func (s *DBStore) DeleteCollection(collection string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Collect the subtree through the parent column; paths contain
		// backslashes, which LIKE treats differently across databases.
		paths := []string{collection}
		for queue := []string{collection}; len(queue) > 0; {
			var children []string
			if err := tx.Model(&Collection{}).Where("parent IN ?", queue).Pluck("path", &children).Error; err != nil {
				return fmt.Errorf("settingsstore: delete collection %s: %w", collection, err)
			}
			paths = append(paths, children...)
			queue = children
		}

		if err := tx.Where("collection IN ?", paths).Delete(&Property{}).Error; err != nil {
			return fmt.Errorf("settingsstore: delete collection %s: %w", collection, err)
		}
		if err := tx.Where("path IN ?", paths).Delete(&Collection{}).Error; err != nil {
			return fmt.Errorf("settingsstore: delete collection %s: %w", collection, err)
		}
		return nil
	})
}

// SubCollectionNames implements settings.WritableStore
func (s *DBStore) SubCollectionNames(collection string) ([]string, error) {
	var paths []string
	err := s.db.Model(&Collection{}).
		Where("parent = ? AND path <> ?", collection, collection).
		Order("path").
		Pluck("path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("settingsstore: list collections of %s: %w", collection, err)
	}

	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, settings.CollectionName(p))
	}
	return names, nil
}

// PropertyNames implements settings.WritableStore
func (s *DBStore) PropertyNames(collection string) ([]string, error) {
	var names []string
	err := s.db.Model(&Property{}).
		Where("collection = ?", collection).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("settingsstore: list properties of %s: %w", collection, err)
	}
	return names, nil
}

// PropertyExists implements settings.WritableStore
func (s *DBStore) PropertyExists(collection, name string) (bool, error) {
	var n int64
	err := s.db.Model(&Property{}).
		Where("collection = ? AND name = ?", collection, name).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("settingsstore: property %s\\%s: %w", collection, name, err)
	}
	return n > 0, nil
}

// String implements settings.WritableStore
func (s *DBStore) String(collection, name string) (string, error) {
	p, err := s.get(collection, name)
	if err != nil {
		return "", err
	}
	if p.Kind != kindNameString {
		return "", fmt.Errorf("%s\\%s: %w", collection, name, settings.ErrPropertyType)
	}
	return p.StringValue, nil
}

// SetString implements settings.WritableStore
func (s *DBStore) SetString(collection, name, value string) error {
	return s.set(Property{Collection: collection, Name: name, Kind: kindNameString, StringValue: value})
}

// Uint32 implements settings.WritableStore
func (s *DBStore) Uint32(collection, name string) (uint32, error) {
	p, err := s.get(collection, name)
	if err != nil {
		return 0, err
	}
	if p.Kind != kindNameUint32 {
		return 0, fmt.Errorf("%s\\%s: %w", collection, name, settings.ErrPropertyType)
	}
	return p.UintValue, nil
}

// SetUint32 implements settings.WritableStore
func (s *DBStore) SetUint32(collection, name string, value uint32) error {
	return s.set(Property{Collection: collection, Name: name, Kind: kindNameUint32, UintValue: value})
}

// DeleteProperty implements settings.WritableStore
func (s *DBStore) DeleteProperty(collection, name string) error {
	err := s.db.Where("collection = ? AND name = ?", collection, name).Delete(&Property{}).Error
	if err != nil {
		return fmt.Errorf("settingsstore: delete property %s\\%s: %w", collection, name, err)
	}
	return nil
}

func (s *DBStore) get(collection, name string) (*Property, error) {
	var p Property
	err := s.db.Where("collection = ? AND name = ?", collection, name).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s\\%s: %w", collection, name, settings.ErrPropertyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("settingsstore: read %s\\%s: %w", collection, name, err)
	}
	return &p, nil
}

func (s *DBStore) set(p Property) error {
	if p.Collection == "" {
		return fmt.Errorf("settingsstore: collection path is empty")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := createCollection(tx, p.Collection); err != nil {
			return err
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "string_value", "uint_value"}),
		}).Create(&p).Error
		if err != nil {
			return fmt.Errorf("settingsstore: write %s\\%s: %w", p.Collection, p.Name, err)
		}
		return nil
	})
}

// redactDSN hides a MySQL password in error messages
func redactDSN(dsn string) string {
	rest, ok := strings.CutPrefix(dsn, MySQLScheme)
	if !ok {
		return dsn
	}
	at := strings.LastIndex(rest, "@")
	colon := strings.Index(rest, ":")
	if at < 0 || colon < 0 || colon > at {
		return dsn
	}
	return MySQLScheme + rest[:colon] + ":***" + rest[at:]
}
