package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nfarrow/partyrounds-backend/internal/playlist"
)

var ErrPlaylistNotFound = errors.New("playlist not found")

type Entity struct {
	ID uint `gorm:"primaryKey"`
}

// Playlist is a named, persisted playlist plus the session settings that
// ride along with it. The session layer only ever reads these; writes come
// through the HTTP API.
type Playlist struct {
	Entity
	Name           string `gorm:"unique;size:64;not null"`
	ShuffleEnabled bool
	SeriesLength   int
	ShowTutorial   bool

	Entries []PlaylistEntry `gorm:"constraint:OnDelete:CASCADE"`
}

type PlaylistEntry struct {
	Entity
	PlaylistID uint   `gorm:"not null;index"`
	GameType   string `gorm:"size:64;not null"`
	MapName    string `gorm:"size:64;not null"`
	// Settings is a JSON blob, opaque to everything but the game mode.
	Settings string
}

// Config is a loaded playlist in the form the session layer consumes:
// raw entries still pending resolution, plus the session knobs.
type Config struct {
	Name           string
	ShuffleEnabled bool
	SeriesLength   int
	ShowTutorial   bool
	Raw            []playlist.RawEntry
}

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open playlist store: %w", err)
	}
	if err := db.AutoMigrate(&Playlist{}, &PlaylistEntry{}); err != nil {
		return nil, fmt.Errorf("migrate playlist store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save upserts a named playlist wholesale: existing entries are replaced,
// not merged.
func (s *Store) Save(cfg Config) error {
	rows := make([]PlaylistEntry, 0, len(cfg.Raw))
	for _, r := range cfg.Raw {
		gameType, _ := r["type"].(string)
		mapName, _ := r["map"].(string)
		settings := "{}"
		if raw, ok := r["settings"]; ok {
			encoded, err := json.Marshal(raw)
			if err != nil {
				return fmt.Errorf("encode entry settings: %w", err)
			}
			settings = string(encoded)
		}
		rows = append(rows, PlaylistEntry{GameType: gameType, MapName: mapName, Settings: settings})
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing Playlist
		err := tx.Where("name = ?", cfg.Name).First(&existing).Error
		if err == nil {
			if err := tx.Where("playlist_id = ?", existing.ID).Delete(&PlaylistEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p := Playlist{
			Name:           cfg.Name,
			ShuffleEnabled: cfg.ShuffleEnabled,
			SeriesLength:   cfg.SeriesLength,
			ShowTutorial:   cfg.ShowTutorial,
			Entries:        rows,
		}
		return tx.Create(&p).Error
	})
}

func (s *Store) Load(name string) (*Config, error) {
	var p Playlist
	err := s.db.Preload("Entries").Where("name = ?", name).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}

	raw := make([]playlist.RawEntry, 0, len(p.Entries))
	for _, row := range p.Entries {
		settings := map[string]any{}
		if row.Settings != "" {
			if err := json.Unmarshal([]byte(row.Settings), &settings); err != nil {
				return nil, fmt.Errorf("decode settings for %s/%s: %w", row.GameType, row.MapName, err)
			}
		}
		raw = append(raw, playlist.RawEntry{
			"type":     row.GameType,
			"map":      row.MapName,
			"settings": settings,
		})
	}

	return &Config{
		Name:           p.Name,
		ShuffleEnabled: p.ShuffleEnabled,
		SeriesLength:   p.SeriesLength,
		ShowTutorial:   p.ShowTutorial,
		Raw:            raw,
	}, nil
}

func (s *Store) List() ([]string, error) {
	var names []string
	if err := s.db.Model(&Playlist{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
