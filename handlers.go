package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"simak/models"
	"simak/pkg/docscan"
	"simak/pkg/export"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/login", loginHandler)
	r.GET("/status", statusHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.POST("/logout", logoutHandler)
	authGroup.GET("/config", configHandler)
	authGroup.GET("/dashboard", dashboardHandler)
	authGroup.GET("/records", listRecordsHandler)
	authGroup.GET("/records/:id", getRecordHandler)
	authGroup.GET("/records/:id/lampiran", listLampiranHandler)
	authGroup.GET("/satuan", listSatuanHandler)
	authGroup.GET("/notifications", listNotificationsHandler)
	authGroup.POST("/notifications/read", markNotificationsReadHandler)
	authGroup.GET("/theme", getThemeHandler)
	authGroup.PUT("/theme", setThemeHandler)
	authGroup.GET("/export/records/pdf", exportRosterHandler)
	authGroup.GET("/export/records/:id/pdf", exportCaseCardHandler)

	adminGroup := authGroup.Group("")
	adminGroup.Use(adminOnly())
	adminGroup.POST("/records", saveRecordHandler)
	adminGroup.DELETE("/records/:id", deleteRecordHandler)
	adminGroup.POST("/records/:id/lampiran", uploadLampiranHandler)
	adminGroup.POST("/satuan", addSatuanHandler)
	adminGroup.PUT("/satuan", renameSatuanHandler)
	adminGroup.DELETE("/satuan", removeSatuanHandler)
}

func loginHandler(c *gin.Context) {
	var req struct {
		Role     string `json:"role" binding:"required"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := LoginRole(req.Role, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token, err := issueToken(role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login berhasil", "token": token, "role": role})
}

// logoutHandler exists so clients have an explicit transition; the session
// lives in the token they hold, so the server only acknowledges.
func logoutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logout berhasil"})
}

// Display-only connectivity stub. There is no peer discovery behind this:
// the count just drifts so the header widget has something to show.
var (
	onlineMu    sync.Mutex
	onlineCount = 8 + rand.Intn(8)
)

func driftOnlineCount() {
	for range time.Tick(15 * time.Second) {
		onlineMu.Lock()
		step := 1
		if rand.Intn(2) == 0 {
			step = -1
		}
		if next := onlineCount + step; next >= 5 && next <= 30 {
			onlineCount = next
		}
		onlineMu.Unlock()
	}
}

func statusHandler(c *gin.Context) {
	onlineMu.Lock()
	n := onlineCount
	onlineMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"online": true, "onlineCount": n})
}

// configHandler serves the fixed option lists the editor renders.
func configHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"pangkat":  PangkatList,
		"perkara":  PerkaraList,
		"tindakan": TindakanList,
		"status":   []string{models.StatusProses, models.StatusSelesai},
		"themes":   ThemeList,
		"unit":     unitTitle(),
	})
}

func dashboardHandler(c *gin.Context) {
	c.JSON(http.StatusOK, state.Stats())
}

func listRecordsHandler(c *gin.Context) {
	out := state.Search(c.Query("q"))
	if out == nil {
		out = []models.ViolationRecord{}
	}
	c.JSON(http.StatusOK, out)
}

func getRecordHandler(c *gin.Context) {
	rec, ok := state.Record(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "data tidak ditemukan"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// saveRecordHandler is the editor's save: upsert keyed by id, new ids
// assigned server-side.
func saveRecordHandler(c *gin.Context) {
	var rec models.ViolationRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rec.Status != models.StatusProses && rec.Status != models.StatusSelesai {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status tidak dikenal"})
		return
	}
	saved, err := state.Upsert(rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, saved)
}

func deleteRecordHandler(c *gin.Context) {
	deleted, err := state.Delete(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func listSatuanHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"units": state.Units()})
}

func addSatuanHandler(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := state.AddUnit(req.Name); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": state.Units()})
}

func renameSatuanHandler(c *gin.Context) {
	var req struct {
		Old string `json:"old" binding:"required"`
		New string `json:"new" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := state.RenameUnit(req.Old, req.New); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": state.Units()})
}

// removeSatuanHandler takes the name as a query parameter because unit
// names contain slashes (e.g. "Yonif 406/CK").
func removeSatuanHandler(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	if err := state.RemoveUnit(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": state.Units()})
}

func listNotificationsHandler(c *gin.Context) {
	out := state.Notifications()
	if out == nil {
		out = []models.AppNotification{}
	}
	c.JSON(http.StatusOK, out)
}

func markNotificationsReadHandler(c *gin.Context) {
	if err := state.MarkAllRead(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "semua notifikasi dibaca"})
}

func getThemeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": state.Theme()})
}

func setThemeHandler(c *gin.Context) {
	var req struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := state.SetTheme(req.Theme); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": state.Theme()})
}

func exportCaseCardHandler(c *gin.Context) {
	rec, ok := state.Record(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "data tidak ditemukan"})
		return
	}
	b, err := export.CaseCardPDF(rec, unitTitle(), logoPath())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.CaseCardFileName(rec.Nama)))
	c.Data(http.StatusOK, "application/pdf", b)
}

func exportRosterHandler(c *gin.Context) {
	b, err := export.RosterPDF(state.Records(), unitTitle())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.RosterFileName(time.Now())))
	c.Data(http.StatusOK, "application/pdf", b)
}

func listLampiranHandler(c *gin.Context) {
	if _, ok := state.Record(c.Param("id")); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "data tidak ditemukan"})
		return
	}
	out := state.LampiranFor(c.Param("id"))
	if out == nil {
		out = []models.Lampiran{}
	}
	c.JSON(http.StatusOK, out)
}

// uploadLampiranHandler stores a scanned document for a record and runs
// OCR on it. OCR failure keeps the attachment, flagged for review.
func uploadLampiranHandler(c *gin.Context) {
	rec, ok := state.Record(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "data tidak ditemukan"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	dir := filepath.Join(lampiranBaseDir(), rec.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	fullPath := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	l := models.Lampiran{
		RecordID:    rec.ID,
		FileName:    filepath.Base(file.Filename),
		StorePath:   fullPath,
		ContentType: file.Header.Get("Content-Type"),
	}
	if text, conf, err := docscan.ExtractText(fullPath); err == nil {
		l.OCRText = text
		l.OCRConf = conf
	} else {
		l.Failed = true
		l.FailedReason = err.Error()
	}
	saved, err := state.AddLampiran(l)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, saved)
}
