// Package docscan extracts text from scanned case documents (berita acara,
// surat perintah, scanned reports) so attachments can be linked to records
// and reviewed without opening the image.
package docscan

import (
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

func lang() string {
	if v := os.Getenv("DOCSCAN_LANG"); v != "" {
		return v
	}
	return "eng"
}

// ExtractText runs preprocessing plus a small multi-pass OCR strategy and
// returns the normalized aggregate text with a confidence proxy in [0,1].
func ExtractText(path string) (string, float64, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open image: %w", err)
	}
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < 900 {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}
	bin := binarize(gray, 210)

	tmp := path
	if p, ok := writeTempImage(bin, "docscan-*.png"); ok {
		tmp = p
		defer os.Remove(p)
	}

	var variants []string

	// base pass on the preprocessed image
	base := gosseract.NewClient()
	_ = base.SetLanguage(lang())
	_ = base.SetImage(tmp)
	if t, err := base.Text(); err == nil {
		variants = append(variants, normalizeText(t))
	}
	base.Close()

	// original image pass; scans with colored stamps/letterheads sometimes
	// survive binarization badly
	orig := gosseract.NewClient()
	_ = orig.SetLanguage(lang())
	_ = orig.SetImage(path)
	if t, err := orig.Text(); err == nil {
		variants = append(variants, normalizeText(t))
	}
	orig.Close()

	// sparse pass picks up isolated header fields (NRP, tanggal)
	sparse := gosseract.NewClient()
	_ = sparse.SetLanguage(lang())
	_ = sparse.SetPageSegMode(gosseract.PSM_SPARSE_TEXT)
	_ = sparse.SetImage(tmp)
	if t, err := sparse.Text(); err == nil {
		variants = append(variants, normalizeText(t))
	}
	sparse.Close()

	best := ""
	for _, v := range variants {
		if len(v) > len(best) {
			best = v
		}
	}
	if strings.TrimSpace(best) == "" {
		return "", 0, ErrNoText
	}
	conf := textConfidence(best)
	log.Printf("docscan %s chars=%d conf=%.2f snippet=%q", path, len(best), conf, snippet(best, 120))
	return best, conf, nil
}

// writeTempImage saves img to a fresh temp file; the pattern's extension
// selects the encoder. When encoding fails the file is removed again so
// failing scans do not pile up empties in the temp dir.
func writeTempImage(img image.Image, pattern string) (string, bool) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", false
	}
	name := f.Name()
	_ = f.Close()
	if err := imaging.Save(img, name); err != nil {
		_ = os.Remove(name)
		return "", false
	}
	return name, true
}

// textConfidence is a cheap proxy: the share of alphanumeric runes in the
// extracted text. Noise-heavy scans score low.
func textConfidence(t string) float64 {
	if t == "" {
		return 0
	}
	alnum := 0
	total := 0
	for _, r := range t {
		if r == ' ' {
			continue
		}
		total++
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			alnum++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alnum) / float64(total)
}
