// Package store is the persistence layer: a BoltDB file with two buckets,
// one for resolved lyrics keyed by video ID and one for manual overrides
// keyed by a normalized search key. Both buckets are mirrored into memory
// for fast reads.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"karaoke-lyrics-go/utils"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const (
	cacheBucket    = "lyrics_cache"
	overrideBucket = "manual_lyrics"
)

// Store wraps BoltDB with in-memory mirrors for fast access
type Store struct {
	db                 *bolt.DB
	cacheMem           sync.Map
	overrideMem        sync.Map
	dbPath             string
	backupPath         string
	compressionEnabled bool
}

// CacheEntry is a resolved lyrics record keyed by video ID. LyricsText is
// stored compressed when compression is enabled.
type CacheEntry struct {
	VideoID    string    `json:"videoId"`
	VideoTitle string    `json:"videoTitle"`
	Artist     string    `json:"artist"`
	Track      string    `json:"track"`
	Source     string    `json:"source"`
	LyricsText string    `json:"lyricsText"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ManualOverride is an operator-supplied lyrics record keyed by search key
type ManualOverride struct {
	SearchKey  string    `json:"searchKey"`
	Artist     string    `json:"artist"`
	Track      string    `json:"track"`
	LyricsText string    `json:"lyricsText"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NormalizeKey builds the override search key from song metadata: artist and
// track joined by a single space, trimmed and lowercased
func NormalizeKey(artist, track string) string {
	key := strings.TrimSpace(strings.TrimSpace(artist) + " " + strings.TrimSpace(track))
	return strings.ToLower(key)
}

// Open opens (or creates) the store database and preloads both buckets
func Open(dbPath, backupPath string, compressionEnabled bool) (*Store, error) {
	dir := filepath.Dir(dbPath)

	if info, err := os.Stat(dir); err == nil {
		log.Infof("[Store:Init] Directory %s exists (IsDir: %v)", dir, info.IsDir())
	} else {
		log.Infof("[Store:Init] Directory %s does not exist, creating...", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %v", err)
	}

	if err := os.MkdirAll(backupPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %v", err)
	}
	log.Infof("[Store:Init] Backup directory set to: %s", backupPath)

	if info, err := os.Stat(dbPath); err == nil {
		log.Infof("[Store:Init] Found existing database file at: %s (size: %d bytes)", dbPath, info.Size())
	} else {
		log.Infof("[Store:Init] Creating new database file at: %s", dbPath)
	}

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %v", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{cacheBucket, overrideBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create store buckets: %v", err)
	}

	s := &Store{
		db:                 db,
		dbPath:             dbPath,
		backupPath:         backupPath,
		compressionEnabled: compressionEnabled,
	}

	if err := s.loadToMemory(); err != nil {
		log.Warnf("[Store] Failed to preload store to memory: %v", err)
	}

	log.Infof("[Store] Persistent store initialized at %s (compression: %v)", dbPath, compressionEnabled)
	return s, nil
}

// loadToMemory loads all entries from disk into the in-memory mirrors
func (s *Store) loadToMemory() error {
	cacheCount, overrideCount := 0, 0

	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(cacheBucket)); b != nil {
			b.ForEach(func(k, v []byte) error {
				var entry CacheEntry
				if err := json.Unmarshal(v, &entry); err != nil {
					log.Warnf("[Store] Failed to unmarshal cache entry for key %s: %v", string(k), err)
					return nil
				}
				s.cacheMem.Store(string(k), entry)
				cacheCount++
				return nil
			})
		}

		if b := tx.Bucket([]byte(overrideBucket)); b != nil {
			b.ForEach(func(k, v []byte) error {
				var override ManualOverride
				if err := json.Unmarshal(v, &override); err != nil {
					log.Warnf("[Store] Failed to unmarshal override for key %s: %v", string(k), err)
					return nil
				}
				s.overrideMem.Store(string(k), override)
				overrideCount++
				return nil
			})
		}

		return nil
	})

	if err != nil {
		return err
	}

	log.Infof("[Store] Loaded %d cache entries and %d overrides from disk", cacheCount, overrideCount)
	return nil
}

// encodeLyrics compresses lyrics text for storage when compression is on
func (s *Store) encodeLyrics(text string) (string, error) {
	if !s.compressionEnabled {
		return text, nil
	}
	return utils.CompressString(text)
}

// decodeLyrics reverses encodeLyrics
func (s *Store) decodeLyrics(stored string) (string, error) {
	if !s.compressionEnabled {
		return stored, nil
	}
	return utils.DecompressString(stored)
}

// GetCacheEntry retrieves a resolved lyrics record by video ID
func (s *Store) GetCacheEntry(videoID string) (*CacheEntry, bool) {
	v, ok := s.cacheMem.Load(videoID)
	if !ok {
		return nil, false
	}

	entry := v.(CacheEntry)
	text, err := s.decodeLyrics(entry.LyricsText)
	if err != nil {
		log.Errorf("[Store] Error decompressing lyrics for video %s: %v", videoID, err)
		return nil, false
	}
	entry.LyricsText = text
	return &entry, true
}

// UpsertCacheEntry stores a resolved lyrics record, preserving the original
// CreatedAt when the video is already cached
func (s *Store) UpsertCacheEntry(entry CacheEntry) error {
	now := time.Now().UTC()
	entry.UpdatedAt = now

	if existing, ok := s.cacheMem.Load(entry.VideoID); ok {
		entry.CreatedAt = existing.(CacheEntry).CreatedAt
	} else {
		entry.CreatedAt = now
	}

	encoded, err := s.encodeLyrics(entry.LyricsText)
	if err != nil {
		log.Errorf("[Store] Error compressing lyrics for video %s: %v", entry.VideoID, err)
		return err
	}

	stored := entry
	stored.LyricsText = encoded

	s.cacheMem.Store(entry.VideoID, stored)

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cacheBucket))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}

		return b.Put([]byte(entry.VideoID), data)
	})
}

// DeleteCacheEntry removes a resolved lyrics record
func (s *Store) DeleteCacheEntry(videoID string) error {
	s.cacheMem.Delete(videoID)

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cacheBucket))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Delete([]byte(videoID))
	})
}

// GetOverride retrieves a manual override by search key. An exact key match
// wins; otherwise a stored key that contains, or is contained in, the query
// key is accepted.
func (s *Store) GetOverride(searchKey string) (*ManualOverride, bool) {
	if searchKey == "" {
		return nil, false
	}

	if v, ok := s.overrideMem.Load(searchKey); ok {
		return s.materializeOverride(v.(ManualOverride))
	}

	var match *ManualOverride
	s.overrideMem.Range(func(k, v interface{}) bool {
		stored := k.(string)
		if strings.Contains(searchKey, stored) || strings.Contains(stored, searchKey) {
			override := v.(ManualOverride)
			match, _ = s.materializeOverride(override)
			return false
		}
		return true
	})

	return match, match != nil
}

func (s *Store) materializeOverride(override ManualOverride) (*ManualOverride, bool) {
	text, err := s.decodeLyrics(override.LyricsText)
	if err != nil {
		log.Errorf("[Store] Error decompressing override %s: %v", override.SearchKey, err)
		return nil, false
	}
	override.LyricsText = text
	return &override, true
}

// UpsertOverride stores a manual override
func (s *Store) UpsertOverride(override ManualOverride) error {
	if existing, ok := s.overrideMem.Load(override.SearchKey); ok {
		override.CreatedAt = existing.(ManualOverride).CreatedAt
	} else {
		override.CreatedAt = time.Now().UTC()
	}

	encoded, err := s.encodeLyrics(override.LyricsText)
	if err != nil {
		log.Errorf("[Store] Error compressing override %s: %v", override.SearchKey, err)
		return err
	}

	stored := override
	stored.LyricsText = encoded

	s.overrideMem.Store(override.SearchKey, stored)

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(overrideBucket))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}

		return b.Put([]byte(override.SearchKey), data)
	})
}

// RangeCache iterates over all cached lyrics records with lyrics decoded
func (s *Store) RangeCache(fn func(entry CacheEntry) bool) {
	s.cacheMem.Range(func(k, v interface{}) bool {
		entry := v.(CacheEntry)
		text, err := s.decodeLyrics(entry.LyricsText)
		if err != nil {
			log.Warnf("[Store] Skipping undecodable cache entry %s: %v", k.(string), err)
			return true
		}
		entry.LyricsText = text
		return fn(entry)
	})
}

// Stats returns store statistics
func (s *Store) Stats() (cacheKeys int, overrideKeys int, sizeInKB int) {
	size := 0
	s.cacheMem.Range(func(k, v interface{}) bool {
		cacheKeys++
		size += len(k.(string)) + len(v.(CacheEntry).LyricsText)
		return true
	})
	s.overrideMem.Range(func(k, v interface{}) bool {
		overrideKeys++
		size += len(k.(string)) + len(v.(ManualOverride).LyricsText)
		return true
	})
	sizeInKB = size / 1024
	return
}

// Clear removes all entries from both buckets
func (s *Store) Clear() error {
	s.cacheMem.Range(func(key, value interface{}) bool {
		s.cacheMem.Delete(key)
		return true
	})
	s.overrideMem.Range(func(key, value interface{}) bool {
		s.overrideMem.Delete(key)
		return true
	})

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{cacheBucket, overrideBucket} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Backup creates a backup of the store database file
// Returns the backup file path
func (s *Store) Backup() (string, error) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	backupFileName := fmt.Sprintf("lyrics_backup_%s.db", timestamp)
	backupFilePath := filepath.Join(s.backupPath, backupFileName)

	log.Infof("[Store:Backup] Creating backup at: %s", backupFilePath)

	// Close the database temporarily to ensure all data is flushed
	if err := s.db.Close(); err != nil {
		return "", fmt.Errorf("failed to close database for backup: %v", err)
	}

	if err := copyFile(s.dbPath, backupFilePath); err != nil {
		s.reopenDatabase()
		return "", fmt.Errorf("failed to copy database file: %v", err)
	}

	if err := s.reopenDatabase(); err != nil {
		return "", fmt.Errorf("failed to reopen database after backup: %v", err)
	}

	log.Infof("[Store:Backup] Backup created successfully: %s", backupFilePath)
	return backupFilePath, nil
}

// BackupAndClear creates a backup of the store and then clears it
func (s *Store) BackupAndClear() (string, error) {
	backupPath, err := s.Backup()
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %v", err)
	}

	if err := s.Clear(); err != nil {
		return backupPath, fmt.Errorf("backup created but failed to clear store: %v", err)
	}

	log.Infof("[Store:Clear] Store cleared successfully (backup: %s)", backupPath)
	return backupPath, nil
}

// reopenDatabase reopens the database connection and reloads the mirrors
func (s *Store) reopenDatabase() error {
	db, err := bolt.Open(s.dbPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %v", err)
	}
	s.db = db

	if err := s.loadToMemory(); err != nil {
		log.Warnf("[Store] Failed to reload store to memory: %v", err)
	}

	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	// Sync to ensure data is written to disk
	return destFile.Sync()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BackupInfo contains metadata about a backup file
type BackupInfo struct {
	FileName  string    `json:"fileName"`
	FilePath  string    `json:"filePath"`
	Size      int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListBackups returns a list of all available backup files
func (s *Store) ListBackups() ([]BackupInfo, error) {
	var backups []BackupInfo

	entries, err := os.ReadDir(s.backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return backups, nil // No backups directory yet
		}
		return nil, fmt.Errorf("failed to read backup directory: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if filepath.Ext(entry.Name()) != ".db" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Warnf("[Store:Backups] Failed to get info for %s: %v", entry.Name(), err)
			continue
		}

		backups = append(backups, BackupInfo{
			FileName:  entry.Name(),
			FilePath:  filepath.Join(s.backupPath, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	return backups, nil
}

// RestoreFromBackup replaces the current store database with a backup
// This will close the current database, replace the file, and reopen it
func (s *Store) RestoreFromBackup(backupFileName string) error {
	backupFilePath := filepath.Join(s.backupPath, backupFileName)

	if _, err := os.Stat(backupFilePath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupFileName)
	}

	if filepath.Ext(backupFileName) != ".db" {
		return fmt.Errorf("invalid backup file: must be a .db file")
	}

	log.Infof("[Store:Restore] Starting restore from backup: %s", backupFileName)

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close current database: %v", err)
	}

	// Keep the current database around until the restore succeeds
	currentBackupPath := s.dbPath + ".pre-restore"
	if err := copyFile(s.dbPath, currentBackupPath); err != nil {
		s.reopenDatabase()
		return fmt.Errorf("failed to backup current database: %v", err)
	}

	if err := copyFile(backupFilePath, s.dbPath); err != nil {
		copyFile(currentBackupPath, s.dbPath)
		s.reopenDatabase()
		return fmt.Errorf("failed to restore backup: %v", err)
	}

	os.Remove(currentBackupPath)

	// Drop in-memory entries that may not exist in the restored file
	s.cacheMem.Range(func(k, v interface{}) bool {
		s.cacheMem.Delete(k)
		return true
	})
	s.overrideMem.Range(func(k, v interface{}) bool {
		s.overrideMem.Delete(k)
		return true
	})

	if err := s.reopenDatabase(); err != nil {
		return fmt.Errorf("failed to reopen database after restore: %v", err)
	}

	log.Infof("[Store:Restore] Successfully restored from backup: %s", backupFileName)
	return nil
}

// DeleteBackup deletes a specific backup file
func (s *Store) DeleteBackup(backupFileName string) error {
	backupFilePath := filepath.Join(s.backupPath, backupFileName)

	if filepath.Ext(backupFileName) != ".db" {
		return fmt.Errorf("invalid backup file: must be a .db file")
	}

	if _, err := os.Stat(backupFilePath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupFileName)
	}

	if err := os.Remove(backupFilePath); err != nil {
		return fmt.Errorf("failed to delete backup: %v", err)
	}

	log.Infof("[Store:Backup] Deleted backup: %s", backupFileName)
	return nil
}
