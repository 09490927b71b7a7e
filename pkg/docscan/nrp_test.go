package docscan

import "testing"

func TestFindNRP(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"labeled", "Nama: Budi Santoso\nNRP: 31102456\nSatuan: Yonif 406/CK", "31102456", true},
		{"labeled lowercase dots", "nrp. 21980123 pangkat praka", "21980123", true},
		{"label wins over earlier run", "No. Surat 99887 / NRP 31102456", "31102456", true},
		{"bare run fallback", "atas nama praka budi 31102456 yang bersangkutan", "31102456", true},
		{"leading zero rejected", "NRP 01234567", "", false},
		{"all same digits rejected", "nomor 5555555", "", false},
		{"too short", "no 1234", "", false},
		{"no digits", "tidak ada nomor sama sekali", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := FindNRP(c.text)
			if got != c.want || ok != c.ok {
				t.Fatalf("FindNRP(%q) = %q,%v want %q,%v", c.text, got, ok, c.want, c.ok)
			}
		})
	}
}

func TestNRPFromFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"31102456_bap.jpg", "31102456", true},
		{"31102456-surat.png", "31102456", true},
		{"inbox/31102456 halaman2.jpg", "31102456", true},
		{"bap_31102456.jpg", "", false}, // number must lead
		{"31102456.jpg", "31102456", true},
		{"0123456_bap.jpg", "", false},
		{"catatan.jpg", "", false},
	}
	for _, c := range cases {
		got, ok := NRPFromFileName(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("NRPFromFileName(%q) = %q,%v want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestPlausibleNRP(t *testing.T) {
	valid := []string{"31102456", "21980123", "12345"}
	for _, s := range valid {
		if !plausibleNRP(s) {
			t.Errorf("plausibleNRP(%q) = false, want true", s)
		}
	}
	invalid := []string{"1234", "12345678901", "01234567", "11111111", "3110a456", ""}
	for _, s := range invalid {
		if plausibleNRP(s) {
			t.Errorf("plausibleNRP(%q) = true, want false", s)
		}
	}
}
