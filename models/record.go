package models

// Case status values. KetTindakan only carries meaning while a case is
// still in process; it must be cleared when the case is closed.
const (
	StatusProses  = "Proses Hukum"
	StatusSelesai = "Selesai"
)

// ViolationRecord is one disciplinary/legal case for one person.
// JSON field names follow the stored blob format.
type ViolationRecord struct {
	ID          string `json:"id"`
	Nama        string `json:"nama" binding:"required"`
	Pangkat     string `json:"pangkat" binding:"required"`
	NRP         string `json:"nrp" binding:"required"`
	Satuan      string `json:"satuan" binding:"required"`
	Jabatan     string `json:"jabatan" binding:"required"`
	Perkara     string `json:"perkara" binding:"required"`
	Pasal       string `json:"pasal"`
	Tanggal     string `json:"tanggal" binding:"required"` // YYYY-MM-DD
	Status      string `json:"status" binding:"required"`
	KetTindakan string `json:"ketTindakan,omitempty"`
	Kronologis  string `json:"kronologis" binding:"required"`
}
