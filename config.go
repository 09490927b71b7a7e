package main

import (
	"log"
	"os"

	"simak/models"

	"golang.org/x/crypto/bcrypt"
)

// Fixed option lists consumed by the editor and validated on save.
var (
	PangkatList = []string{
		"Prada", "Pratu", "Praka",
		"Kopda", "Koptu", "Kopka",
		"Serda", "Sertu", "Serka", "Serma",
		"Pelda", "Peltu",
		"Letda", "Lettu", "Kapten", "Mayor", "Letkol",
	}

	PerkaraList = []string{
		"Desersi",
		"THTI",
		"Penganiayaan",
		"Narkoba",
		"Asusila",
		"Laka Lantas",
		"Penipuan",
		"Pelanggaran Disiplin",
		"Lainnya",
	}

	TindakanList = []string{
		"Pemeriksaan",
		"Penyidikan",
		"Penahanan",
		"Sidang Disiplin",
		"Pelimpahan ke Pomdam",
		"Menunggu Putusan",
	}

	// DefaultSatuanList seeds the unit directory on first start; afterwards
	// the persisted list is authoritative.
	DefaultSatuanList = []string{
		"Mabrigif 4/DR",
		"Yonif 405/SK",
		"Yonif 406/CK",
		"Yonif 407/PK",
		"Yonif 408/SBH",
	}

	ThemeList = []models.Theme{
		{ID: "jungle", Name: "Loreng Hijau", Gradient: "linear-gradient(135deg,#1a2418,#2d3a2a)", Accent: "#16a34a", Light: "#dcfce7", Dark: "#14532d"},
		{ID: "desert", Name: "Gurun", Gradient: "linear-gradient(135deg,#44403c,#78716c)", Accent: "#d97706", Light: "#fef3c7", Dark: "#92400e"},
		{ID: "ocean", Name: "Samudra", Gradient: "linear-gradient(135deg,#0c4a6e,#075985)", Accent: "#0284c7", Light: "#e0f2fe", Dark: "#0c4a6e"},
		{ID: "night", Name: "Malam", Gradient: "linear-gradient(135deg,#0f172a,#1e293b)", Accent: "#6366f1", Light: "#e0e7ff", Dark: "#312e81"},
	}

	DefaultTheme = "jungle"
)

func validTheme(id string) bool {
	for _, t := range ThemeList {
		if t.ID == id {
			return true
		}
	}
	return false
}

// unitTitle is the organization name printed on exports and dashboards.
func unitTitle() string {
	if v := os.Getenv("UNIT_TITLE"); v != "" {
		return v
	}
	return "BRIGADE INFANTERI 4/DEWA RATNA"
}

// logoPath points at an optional PNG/JPEG logo embedded into PDF exports.
func logoPath() string {
	return os.Getenv("LOGO_PATH")
}

// lampiranBaseDir returns the base directory for scanned case documents
// (configurable via LAMPIRAN_BASE).
func lampiranBaseDir() string {
	if v := os.Getenv("LAMPIRAN_BASE"); v != "" {
		return v
	}
	return "lampiran"
}

// resolveAdminHash returns the bcrypt hash the admin login is checked
// against. ADMIN_PASS_HASH wins; otherwise ADMIN_PASS (dev fallback if
// unset) is hashed at startup.
func resolveAdminHash() []byte {
	if h := os.Getenv("ADMIN_PASS_HASH"); h != "" {
		return []byte(h)
	}
	pass := os.Getenv("ADMIN_PASS")
	if pass == "" {
		pass = "simak123" // development fallback
		log.Println("ADMIN_PASS not set; using development default")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	return hashed
}
