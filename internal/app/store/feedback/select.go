package feedbackstore

import (
	"fmt"

	"github.com/dalemusser/ratingdesk/internal/app/system/jsonfile"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Storage modes accepted by New.
const (
	ModeFile  = "file"
	ModeMongo = "mongo"
)

// Options configures New.
type Options struct {
	Mode        string
	FilePath    string
	PageSize    int
	MaxPageSize int
}

// New picks the backend once. File mode uses only the JSON file. Mongo
// mode wraps the collection in a FallbackStore over the same file; a nil db
// in mongo mode degrades to file only.
func New(opts Options, db *mongo.Database, logger *zap.Logger) (Store, error) {
	file := NewFileStore(jsonfile.New(opts.FilePath), opts.PageSize, opts.MaxPageSize, logger)

	switch opts.Mode {
	case ModeFile:
		return file, nil
	case ModeMongo:
		if db == nil {
			logger.Warn("mongo storage requested without a database; using file storage",
				zap.String("path", opts.FilePath))
			return file, nil
		}
		remote := NewMongoStore(db, opts.PageSize, opts.MaxPageSize)
		return NewFallbackStore(remote, file, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage mode %q (want %q or %q)", opts.Mode, ModeFile, ModeMongo)
	}
}
