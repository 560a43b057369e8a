package sql

import (
	"time"

	"github.com/Brawl345/pixabot/logger"
	"github.com/jmoiron/sqlx"
)

type pixabayCleanupService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewPixabayCleanupService(db *sqlx.DB) *pixabayCleanupService {
	return &pixabayCleanupService{
		DB:  db,
		log: logger.New("pixabayCleanupService"),
	}
}

func (db *pixabayCleanupService) Cleanup(olderThan time.Duration) error {
	const query = `DELETE FROM pixabay_queries WHERE created_at < NOW() - INTERVAL ? SECOND`
	res, err := db.Exec(query, int64(olderThan.Seconds()))
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows > 0 {
		db.log.Debug().Int64("rows", rows).Msg("removed expired pixabay pages")
	}
	return nil
}
