package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/services"
	"kasir-amanah/internal/store"

	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes settings access, backup download, restore
// upload and factory reset. Restore and reset are destructive: the UI
// must gate them behind an explicit confirmation.
type SettingsHandler struct {
	settings  *services.SettingsService
	scheduler *services.BackupScheduler
	dataStore *store.Store
}

// NewSettingsHandler wires the handler to its services.
func NewSettingsHandler(settings *services.SettingsService, scheduler *services.BackupScheduler, dataStore *store.Store) *SettingsHandler {
	return &SettingsHandler{settings: settings, scheduler: scheduler, dataStore: dataStore}
}

// GetSetting returns one setting value as raw JSON.
func (h *SettingsHandler) GetSetting(c *gin.Context) {
	var value json.RawMessage
	found, err := h.settings.Get(c.Param("key"), &value)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

// SetSetting stores one setting. The body is the value, any JSON shape.
func (h *SettingsHandler) SetSetting(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 || !json.Valid(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body must be a JSON value"})
		return
	}

	if err := h.settings.Set(c.Param("key"), json.RawMessage(raw)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Setting saved"})
}

// DownloadBackup streams a full snapshot as a JSON file download.
func (h *SettingsHandler) DownloadBackup(c *gin.Context) {
	raw, err := h.settings.Backup()
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("kasir_amanah_backup_%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", raw)
}

// WriteBackup writes a snapshot file into the local backup directory,
// the same thing the scheduler does on its own timer.
func (h *SettingsHandler) WriteBackup(c *gin.Context) {
	path, err := h.scheduler.RunOnce()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Backup written", "path": path})
}

// Restore replaces stored data with an uploaded snapshot document.
func (h *SettingsHandler) Restore(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup document is required"})
		return
	}

	if err := h.settings.Restore(raw); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Backup restored"})
}

// FactoryReset wipes the whole database and recreates the empty schema.
func (h *SettingsHandler) FactoryReset(c *gin.Context) {
	if err := h.settings.ResetAll(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All data has been reset"})
}

// GetStatus reports the store connection state for the operational view.
func (h *SettingsHandler) GetStatus(c *gin.Context) {
	var lastBackup string
	_, _ = h.settings.Get(models.SettingLastBackupAt, &lastBackup)

	c.JSON(http.StatusOK, gin.H{
		"store":        h.dataStore.State().String(),
		"lastBackupAt": lastBackup,
	})
}
