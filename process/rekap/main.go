package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"simak/models"
	"simak/pkg/localstore"
)

// Monthly recap over the persisted records: per-status and per-satuan
// counts for every record whose tanggal falls inside the given month.

func main() {
	monthFlag := flag.String("month", "", "month to recap, YYYY-MM (default current month)")
	listFlag := flag.Bool("list", false, "also list the matching records")
	flag.Parse()

	_ = godotenv.Load()

	month := *monthFlag
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		log.Fatalf("invalid -month %q (want YYYY-MM): %v", month, err)
	}
	end := start.AddDate(0, 1, 0)

	store := localstore.Open()
	var records []models.ViolationRecord
	b, ok, err := store.Load(localstore.KeyRecords)
	if err != nil {
		log.Fatalf("failed to load records: %v", err)
	}
	if ok {
		if err := json.Unmarshal(b, &records); err != nil {
			log.Fatalf("corrupt records blob: %v", err)
		}
	}

	var matched []models.ViolationRecord
	byStatus := map[string]int{}
	bySatuan := map[string]int{}
	for _, r := range records {
		t, err := time.Parse("2006-01-02", r.Tanggal)
		if err != nil {
			log.Printf("skipping %s: bad tanggal %q", r.ID, r.Tanggal)
			continue
		}
		if t.Before(start) || !t.Before(end) {
			continue
		}
		matched = append(matched, r)
		byStatus[r.Status]++
		bySatuan[r.Satuan]++
	}

	fmt.Printf("Rekap %s: %d perkara\n\n", month, len(matched))
	fmt.Printf("  %-16s %d\n", models.StatusProses, byStatus[models.StatusProses])
	fmt.Printf("  %-16s %d\n\n", models.StatusSelesai, byStatus[models.StatusSelesai])

	units := make([]string, 0, len(bySatuan))
	for u := range bySatuan {
		units = append(units, u)
	}
	sort.Strings(units)
	for _, u := range units {
		fmt.Printf("  %-20s %d\n", u, bySatuan[u])
	}

	if *listFlag && len(matched) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TANGGAL\tNAMA\tNRP\tSATUAN\tPERKARA\tSTATUS")
		sort.Slice(matched, func(i, j int) bool { return matched[i].Tanggal < matched[j].Tanggal })
		for _, r := range matched {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Tanggal, r.Nama, r.NRP, r.Satuan, r.Perkara, r.Status)
		}
		w.Flush()
	}
}
