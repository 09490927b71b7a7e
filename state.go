package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"simak/models"
	"simak/pkg/localstore"

	"github.com/google/uuid"
)

// AppState owns the canonical in-memory collections and mirrors every
// mutation to the store as a whole-collection overwrite. One logical
// writer per process; cross-process writes are last-write-wins.
type AppState struct {
	mu       sync.Mutex
	store    localstore.Store
	records  []models.ViolationRecord
	units    []string
	notifs   []models.AppNotification
	lampiran []models.Lampiran
	theme    string
}

func NewAppState(store localstore.Store) *AppState {
	return &AppState{store: store, theme: DefaultTheme}
}

// Load reads every persisted collection. A missing key falls back to its
// default; a malformed blob is a hard error so startup can abort.
func (s *AppState) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadJSON(localstore.KeyRecords, &s.records); err != nil {
		return err
	}
	if err := s.loadJSON(localstore.KeyUnits, &s.units); err != nil {
		return err
	}
	if len(s.units) == 0 {
		s.units = append([]string(nil), DefaultSatuanList...)
	}
	if err := s.loadJSON(localstore.KeyNotifs, &s.notifs); err != nil {
		return err
	}
	if err := s.loadJSON(localstore.KeyLampiran, &s.lampiran); err != nil {
		return err
	}
	if b, ok, err := s.store.Load(localstore.KeyTheme); err != nil {
		return err
	} else if ok {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return fmt.Errorf("parse %s: %w", localstore.KeyTheme, err)
		}
		if validTheme(id) {
			s.theme = id
		}
	}
	return nil
}

func (s *AppState) loadJSON(key string, dst any) error {
	b, ok, err := s.store.Load(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	return nil
}

func (s *AppState) saveJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.store.Save(key, b)
}

// appendNotification prepends an entry and evicts beyond the cap.
// Caller holds the lock.
func (s *AppState) appendNotification(message, typ string) error {
	n := models.AppNotification{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
		IsRead:    false,
		Type:      typ,
	}
	s.notifs = append([]models.AppNotification{n}, s.notifs...)
	if len(s.notifs) > models.MaxNotifications {
		s.notifs = s.notifs[:models.MaxNotifications]
	}
	return s.saveJSON(localstore.KeyNotifs, s.notifs)
}

// Upsert inserts or replaces by id, keeping position on replace. An empty
// id is assigned from the clock (nudged past collisions). A completed case
// never stores an action note, whatever the caller sent.
func (s *AppState) Upsert(rec models.ViolationRecord) (models.ViolationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Status == models.StatusSelesai {
		rec.KetTindakan = ""
	}
	if rec.ID == "" {
		id := time.Now().UnixMilli()
		for s.indexOf(strconv.FormatInt(id, 10)) >= 0 {
			id++
		}
		rec.ID = strconv.FormatInt(id, 10)
	}
	if i := s.indexOf(rec.ID); i >= 0 {
		s.records[i] = rec
	} else {
		s.records = append(s.records, rec)
	}
	if err := s.saveJSON(localstore.KeyRecords, s.records); err != nil {
		return models.ViolationRecord{}, err
	}
	if err := s.appendNotification(fmt.Sprintf("Data %s telah diperbarui", rec.Nama), models.NotifSuccess); err != nil {
		return models.ViolationRecord{}, err
	}
	return rec, nil
}

// Delete removes the record with id, preserving the order of the rest.
// A missing id is a silent no-op: nothing persisted, nothing logged.
func (s *AppState) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	if err := s.saveJSON(localstore.KeyRecords, s.records); err != nil {
		return false, err
	}
	if err := s.appendNotification("Satu record data telah dihapus", models.NotifInfo); err != nil {
		return false, err
	}
	return true, nil
}

// indexOf returns the position of id or -1. Caller holds the lock.
func (s *AppState) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// Records returns a copy of the full ordered collection.
func (s *AppState) Records() []models.ViolationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ViolationRecord(nil), s.records...)
}

// Record returns the record with id.
func (s *AppState) Record(id string) (models.ViolationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i], true
	}
	return models.ViolationRecord{}, false
}

// Search filters records by q: case-insensitive substring over nama,
// satuan, perkara, pasal and ketTindakan; verbatim substring over nrp.
// Empty q matches everything.
func (s *AppState) Search(q string) []models.ViolationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q == "" {
		return append([]models.ViolationRecord(nil), s.records...)
	}
	low := strings.ToLower(q)
	var out []models.ViolationRecord
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.Nama), low) ||
			strings.Contains(r.NRP, q) ||
			strings.Contains(strings.ToLower(r.Satuan), low) ||
			strings.Contains(strings.ToLower(r.Perkara), low) ||
			strings.Contains(strings.ToLower(r.Pasal), low) ||
			strings.Contains(strings.ToLower(r.KetTindakan), low) {
			out = append(out, r)
		}
	}
	return out
}

// FindByNRP returns the first record whose service number matches exactly.
func (s *AppState) FindByNRP(nrp string) (models.ViolationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.NRP == nrp {
			return r, true
		}
	}
	return models.ViolationRecord{}, false
}

// UnitCount is one bar of the per-unit chart data.
type UnitCount struct {
	Satuan string `json:"satuan"`
	Total  int    `json:"total"`
}

// CaseCount is one slice of the per-perkara chart data.
type CaseCount struct {
	Perkara string `json:"perkara"`
	Total   int    `json:"total"`
}

// DashboardStats is a pure aggregation of the current collections,
// recomputed on every request.
type DashboardStats struct {
	Proses     int         `json:"proses"`
	Selesai    int         `json:"selesai"`
	PerSatuan  []UnitCount `json:"perSatuan"`
	PerPerkara []CaseCount `json:"perPerkara"`
}

// Stats counts by status, by every directory unit (zeros included, in
// directory order) and by the distinct case types actually present
// (first-seen order).
func (s *AppState) Stats() DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st DashboardStats
	for _, r := range s.records {
		switch r.Status {
		case models.StatusProses:
			st.Proses++
		case models.StatusSelesai:
			st.Selesai++
		}
	}
	st.PerSatuan = make([]UnitCount, 0, len(s.units))
	for _, u := range s.units {
		n := 0
		for _, r := range s.records {
			if r.Satuan == u {
				n++
			}
		}
		st.PerSatuan = append(st.PerSatuan, UnitCount{Satuan: u, Total: n})
	}
	st.PerPerkara = []CaseCount{}
	seen := map[string]int{}
	for _, r := range s.records {
		if i, ok := seen[r.Perkara]; ok {
			st.PerPerkara[i].Total++
			continue
		}
		seen[r.Perkara] = len(st.PerPerkara)
		st.PerPerkara = append(st.PerPerkara, CaseCount{Perkara: r.Perkara, Total: 1})
	}
	return st
}

// Units returns a copy of the unit directory in insertion order.
func (s *AppState) Units() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.units...)
}

// AddUnit appends a new unit name; names are unique within the directory.
func (s *AppState) AddUnit(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("nama satuan kosong")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		if u == name {
			return fmt.Errorf("satuan sudah ada")
		}
	}
	s.units = append(s.units, name)
	if err := s.saveJSON(localstore.KeyUnits, s.units); err != nil {
		return err
	}
	return s.appendNotification(fmt.Sprintf("Satuan %s ditambahkan", name), models.NotifInfo)
}

// RenameUnit renames a directory entry and cascades the new name to every
// record referencing the old one, so per-unit aggregation stays whole.
func (s *AppState) RenameUnit(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("nama satuan kosong")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, u := range s.units {
		if u == newName && oldName != newName {
			return fmt.Errorf("satuan sudah ada")
		}
		if u == oldName {
			idx = i
		}
	}
	if idx < 0 {
		return fmt.Errorf("satuan tidak ditemukan")
	}
	s.units[idx] = newName
	touched := false
	for i := range s.records {
		if s.records[i].Satuan == oldName {
			s.records[i].Satuan = newName
			touched = true
		}
	}
	if err := s.saveJSON(localstore.KeyUnits, s.units); err != nil {
		return err
	}
	if touched {
		if err := s.saveJSON(localstore.KeyRecords, s.records); err != nil {
			return err
		}
	}
	return s.appendNotification(fmt.Sprintf("Satuan %s diubah menjadi %s", oldName, newName), models.NotifInfo)
}

// RemoveUnit drops a directory entry. Records keep their unit name; only
// the aggregation rows disappear.
func (s *AppState) RemoveUnit(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, u := range s.units {
		if u == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("satuan tidak ditemukan")
	}
	s.units = append(s.units[:idx], s.units[idx+1:]...)
	if err := s.saveJSON(localstore.KeyUnits, s.units); err != nil {
		return err
	}
	return s.appendNotification(fmt.Sprintf("Satuan %s dihapus", name), models.NotifInfo)
}

// Notifications returns the log, most recent first.
func (s *AppState) Notifications() []models.AppNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AppNotification(nil), s.notifs...)
}

// MarkAllRead flips every entry to read, keeping count and order.
func (s *AppState) MarkAllRead() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifs {
		s.notifs[i].IsRead = true
	}
	return s.saveJSON(localstore.KeyNotifs, s.notifs)
}

// Theme returns the selected theme id.
func (s *AppState) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme persists the selected theme id.
func (s *AppState) SetTheme(id string) error {
	if !validTheme(id) {
		return fmt.Errorf("tema tidak dikenal")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = id
	return s.saveJSON(localstore.KeyTheme, id)
}

// LampiranFor lists attachment metadata for one record.
func (s *AppState) LampiranFor(recordID string) []models.Lampiran {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Lampiran
	for _, l := range s.lampiran {
		if l.RecordID == recordID {
			out = append(out, l)
		}
	}
	return out
}

// HasLampiran reports whether a record already carries a file of this name.
func (s *AppState) HasLampiran(recordID, fileName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lampiran {
		if l.RecordID == recordID && l.FileName == fileName {
			return true
		}
	}
	return false
}

// AddLampiran upserts by (record, filename) so repeated scans of the same
// file stay idempotent. Missing ids and timestamps are filled in.
func (s *AppState) AddLampiran(l models.Lampiran) (models.Lampiran, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.UploadedAt == 0 {
		l.UploadedAt = time.Now().UnixMilli()
	}
	replaced := false
	for i := range s.lampiran {
		if s.lampiran[i].RecordID == l.RecordID && s.lampiran[i].FileName == l.FileName {
			l.ID = s.lampiran[i].ID
			s.lampiran[i] = l
			replaced = true
			break
		}
	}
	if !replaced {
		s.lampiran = append(s.lampiran, l)
	}
	if err := s.saveJSON(localstore.KeyLampiran, s.lampiran); err != nil {
		return models.Lampiran{}, err
	}
	return l, nil
}
