package archive

import (
	"fmt"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/database"
	"github.com/Ayash-Bera/geonews/backend/internal/repository"
)

type Options struct {
	Driver    string
	Dir       string
	RedisKeep int
	RedisTTL  time.Duration
}

// New builds the archive for opts.Driver. The postgres and redis drivers
// need the matching connection on db.
func New(opts Options, db *database.Manager) (Archive, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFileArchive(opts.Dir)
	case DriverPostgres:
		if db == nil || db.DB == nil {
			return nil, fmt.Errorf("postgres archive needs a database connection")
		}
		repos := repository.NewRepositoryManager(db.DB)
		return NewPostgresArchive(repos.NewsReport, db.PingDatabase), nil
	case DriverRedis:
		if db == nil || db.Redis == nil {
			return nil, fmt.Errorf("redis archive needs a redis connection")
		}
		return NewRedisArchive(db.Redis, opts.RedisKeep, opts.RedisTTL), nil
	case DriverNone:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unsupported archive driver %q", opts.Driver)
	}
}
