package server

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"sitepay/internal/config"
	"sitepay/internal/database"
	"sitepay/internal/models"
	"sitepay/internal/storage"
)

type Server struct {
	port int
	cfg  *config.Config
	db   *models.DB
	sql  database.Service
	s3   *storage.S3Service
	log  *zap.Logger
}

func (s *Server) GetDB() *models.DB {
	return s.db
}

func (s *Server) GetSQL() database.Service {
	return s.sql
}

func (s *Server) GetStorage() *storage.S3Service {
	return s.s3
}

func (s *Server) GetConfig() *config.Config {
	return s.cfg
}

func (s *Server) GetLogger() *zap.Logger {
	return s.log
}

func NewServer(cfg *config.Config, db *models.DB, sqlService database.Service, s3Service *storage.S3Service, log *zap.Logger) *http.Server {
	srv := &Server{
		port: cfg.Port,
		cfg:  cfg,
		db:   db,
		sql:  sqlService,
		s3:   s3Service,
		log:  log,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
