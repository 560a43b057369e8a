package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Brawl345/pixabot/logger"
	"github.com/Brawl345/pixabot/model"
	"github.com/jmoiron/sqlx"
)

type pixabayService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewPixabayService(db *sqlx.DB) *pixabayService {
	return &pixabayService{
		DB:  db,
		log: logger.New("pixabayService"),
	}
}

func (db *pixabayService) GetPage(query string, page int, variant string, maxAge time.Duration) (model.PixabayPage, error) {
	query = strings.ToLower(query)
	const selectQuery = `SELECT id, query, page, variant, total_hits, created_at
		FROM pixabay_queries
		WHERE query = ? AND page = ? AND variant = ?
		AND created_at > NOW() - INTERVAL ? SECOND`

	var cached model.PixabayPage
	err := db.Get(&cached, selectQuery, query, page, variant, int64(maxAge.Seconds()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PixabayPage{}, model.ErrNotFound
		}
		return model.PixabayPage{}, err
	}

	const selectImages = `SELECT image_id, tags, page_url, preview_url, webformat_url, large_image_url, views, likes, downloads, user
		FROM pixabay_images
		WHERE query_id = ?
		ORDER BY position`

	err = db.Select(&cached.Images, selectImages, cached.QueryID)
	if err != nil {
		return model.PixabayPage{}, err
	}

	return cached, nil
}

func (db *pixabayService) SavePage(page *model.PixabayPage) error {
	query := strings.ToLower(page.Query)
	tx, err := db.BeginTxx(context.Background(), nil)
	if err != nil {
		return err
	}

	defer func(tx *sqlx.Tx) {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.log.Err(err).Msg("failed to rollback transaction")
		}
	}(tx)

	const deleteExisting = `DELETE FROM pixabay_queries WHERE query = ? AND page = ? AND variant = ?`
	_, err = tx.Exec(deleteExisting, query, page.Page, page.Variant)
	if err != nil {
		return err
	}

	const insertQuery = `INSERT INTO pixabay_queries (query, page, variant, total_hits) VALUES (?, ?, ?, ?)`
	res, err := tx.Exec(insertQuery, query, page.Page, page.Variant, page.TotalHits)
	if err != nil {
		return err
	}

	lastInsertID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if len(page.Images) > 0 {
		valueStrings := make([]string, 0, len(page.Images))
		valueArgs := make([]any, 0, len(page.Images)*12)
		for i, image := range page.Images {
			valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			valueArgs = append(valueArgs,
				lastInsertID,
				i,
				image.ImageID,
				image.Tags,
				image.PageURL,
				image.PreviewURL,
				image.WebformatURL,
				image.LargeImageURL,
				image.Views,
				image.Likes,
				image.Downloads,
				image.User,
			)
		}
		insertImages := fmt.Sprintf(`INSERT INTO pixabay_images
			(query_id, position, image_id, tags, page_url, preview_url, webformat_url, large_image_url, views, likes, downloads, user)
			VALUES %s`,
			strings.Join(valueStrings, ","))
		_, err = tx.Exec(insertImages, valueArgs...)
		if err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	page.QueryID = lastInsertID
	return nil
}
