package deps

import (
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relieflk/floodmap/config"
	"github.com/relieflk/floodmap/internal/db"
	"github.com/relieflk/floodmap/util/storage"
	"github.com/relieflk/floodmap/util/websockets"
)

type Dependencies struct {
	DB         *db.DB
	Cloudinary *storage.Cloudinary
	Hub        *websockets.Hub
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	cloudinary := storage.NewCloudinary(cfg)
	hub := websockets.NewHub()

	deps := Dependencies{
		DB:         database,
		Cloudinary: cloudinary,
		Hub:        hub,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
