package main

import (
	"fmt"
	"net/http"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/stats"
	"karaoke-lyrics-go/store"

	log "github.com/sirupsen/logrus"
)

// adminAuthorized checks the admin token on the Authorization header.
// An unconfigured token disables the admin surface entirely.
func adminAuthorized(r *http.Request) bool {
	token := conf.Configuration.AdminAccessToken
	return token != "" && r.Header.Get("Authorization") == token
}

func getStoreDump(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dump := StoreDump{}
	lyricsStore.RangeCache(func(entry store.CacheEntry) bool {
		dump[entry.VideoID] = entry
		return true
	})

	cacheKeys, overrideKeys, sizeInKB := lyricsStore.Stats()
	s := stats.Get()

	Respond(w, r).JSON(StoreDumpResponse{
		NumberOfKeys: cacheKeys,
		OverrideKeys: overrideKeys,
		SizeInKB:     sizeInKB,
		SizeInMB:     float64(sizeInKB) / 1024,
		Performance: StorePerformance{
			Hits:         s.CacheHits.Load(),
			Misses:       s.CacheMisses.Load(),
			OverrideHits: s.OverrideHits.Load(),
			HitRate:      s.CacheHitRate(),
		},
		Cache: dump,
	})
}

func backupStore(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	backupPath, err := lyricsStore.Backup()
	if err != nil {
		log.Errorf("%s Failed to create backup: %v", logcolors.LogStoreBackup, err)
		Respond(w, r).Error(http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Failed to create backup: %v", err),
		})
		return
	}

	log.Infof("%s Backup created successfully at: %s", logcolors.LogStoreBackup, backupPath)
	Respond(w, r).JSON(map[string]interface{}{
		"message":     "Backup created successfully",
		"backup_path": backupPath,
	})
}

func listBackups(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	backups, err := lyricsStore.ListBackups()
	if err != nil {
		log.Errorf("%s Failed to list backups: %v", logcolors.LogStoreBackup, err)
		Respond(w, r).Error(http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Failed to list backups: %v", err),
		})
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"count":   len(backups),
		"backups": backups,
	})
}

func restoreStore(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	backupFileName := r.URL.Query().Get("backup")
	if backupFileName == "" {
		Respond(w, r).Error(http.StatusBadRequest, map[string]interface{}{
			"error": "Missing 'backup' query parameter. Use /cache/backups to list available backups.",
		})
		return
	}

	if err := lyricsStore.RestoreFromBackup(backupFileName); err != nil {
		log.Errorf("%s Failed to restore from backup %s: %v", logcolors.LogStoreRestore, backupFileName, err)
		Respond(w, r).Error(http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Failed to restore from backup: %v", err),
		})
		return
	}

	cacheKeys, overrideKeys, sizeInKB := lyricsStore.Stats()

	log.Infof("%s Store restored from backup: %s", logcolors.LogStoreRestore, backupFileName)
	Respond(w, r).JSON(map[string]interface{}{
		"message":       "Store restored successfully",
		"restored_from": backupFileName,
		"keys_restored": cacheKeys,
		"override_keys": overrideKeys,
		"size_kb":       sizeInKB,
	})
}

func clearStore(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	backupPath, err := lyricsStore.BackupAndClear()
	if err != nil {
		log.Errorf("%s Failed to backup and clear store: %v", logcolors.LogStoreClear, err)
		Respond(w, r).Error(http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Failed to backup and clear store: %v", err),
		})
		return
	}

	log.Infof("%s Store cleared successfully, backup at: %s", logcolors.LogStoreClear, backupPath)
	Respond(w, r).JSON(map[string]interface{}{
		"message":     "Store cleared successfully",
		"backup_path": backupPath,
	})
}

func getStats(w http.ResponseWriter, r *http.Request) {
	if !adminAuthorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snapshot := stats.Get().Snapshot()

	cacheKeys, overrideKeys, sizeInKB := lyricsStore.Stats()
	snapshot["store"] = map[string]interface{}{
		"cache_keys":    cacheKeys,
		"override_keys": overrideKeys,
		"size_kb":       sizeInKB,
		"size_mb":       float64(sizeInKB) / 1024,
	}

	snapshot["circuit_breakers"] = lyricsResolver.BreakerStates()

	Respond(w, r).JSON(snapshot)
}

func getHealthStatus(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status": "ok",
	}

	breakers := lyricsResolver.BreakerStates()
	health["circuit_breakers"] = breakers
	for name, state := range breakers {
		if state == "OPEN" {
			health["status"] = "degraded"
			health["degraded_provider"] = name
		}
	}

	if checker, ok := videoExtractor.(interface{ CheckBinary() error }); ok {
		if err := checker.CheckBinary(); err != nil {
			health["video_extractor"] = "unavailable"
		} else {
			health["video_extractor"] = "ok"
		}
	}

	cacheKeys, overrideKeys, _ := lyricsStore.Stats()
	health["cache_keys"] = cacheKeys
	health["override_keys"] = overrideKeys

	Respond(w, r).JSON(health)
}
