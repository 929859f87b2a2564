package util

import (
	"fmt"
	"log"

	"github.com/gen2brain/go-fitz"
)

// InspectPDF opens a stored PDF and checks it is readable and not longer
// than maxPages. It returns the page count.
func InspectPDF(path string, maxPages int) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return 0, fmt.Errorf("PDF has no pages")
	}
	if maxPages > 0 && pages > maxPages {
		return pages, fmt.Errorf("PDF has %d pages, at most %d allowed", pages, maxPages)
	}

	// A page that cannot be laid out means the vendor will not read it either.
	if _, err := doc.Text(0); err != nil {
		return pages, fmt.Errorf("page 1: failed to read text: %w", err)
	}

	log.Printf("Inspected PDF %s: %d pages", path, pages)
	return pages, nil
}
