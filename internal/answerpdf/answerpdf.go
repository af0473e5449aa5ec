// Package answerpdf renders drafted answers as A4 pages and appends them to
// the questions PDF they answer.
package answerpdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Page geometry in points.
const (
	margin     = 50.0
	fontSize   = 12.0
	lineHeight = 16.0
)

var ErrNoAnswers = errors.New("no answers to render")

// Section is one answered question.
type Section struct {
	PageNumber int
	Question   string
	Answer     string
}

var configDir sync.Once

// config is relaxed so scanner and office exports with minor defects still
// merge. pdfcpu never writes its config directory from this process.
func config() *model.Configuration {
	configDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in r, or an error when r is not a
// readable PDF.
func PageCount(r io.ReadSeeker) (int, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return api.PageCount(r, config())
}

// Render writes a PDF holding only the answer pages. Every section starts
// on a new page; long answers continue onto following pages.
func Render(w io.Writer, sections []Section) error {
	if len(sections) == 0 {
		return ErrNoAnswers
	}
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252, the core fonts' encoding

	heading := func(s string) {
		pdf.SetFont("Times", "B", fontSize)
		pdf.MultiCell(0, lineHeight, s, "", "L", false)
		pdf.Ln(4)
		pdf.SetFont("Times", "", fontSize)
	}
	for _, s := range sections {
		pdf.AddPage()
		heading(fmt.Sprintf("Question from Page %d:", s.PageNumber))
		pdf.MultiCell(0, lineHeight, tr(strings.TrimSpace(s.Question)), "", "L", false)
		pdf.Ln(14)

		heading("Answer:")
		for _, p := range paragraphs(s.Answer) {
			pdf.MultiCell(0, lineHeight, tr(p), "", "L", false)
			pdf.Ln(8)
		}
	}
	return pdf.Output(w)
}

// Append writes original followed by the rendered answer pages.
func Append(w io.Writer, original io.ReadSeeker, sections []Section) error {
	var pages bytes.Buffer
	if err := Render(&pages, sections); err != nil {
		return fmt.Errorf("render answers: %w", err)
	}
	if _, err := original.Seek(0, io.SeekStart); err != nil {
		return err
	}
	in := []io.ReadSeeker{original, bytes.NewReader(pages.Bytes())}
	if err := api.MergeRaw(in, w, false, config()); err != nil {
		return fmt.Errorf("merge answers: %w", err)
	}
	return nil
}

// paragraphs splits on blank lines and folds single newlines into spaces,
// the way the answer prompt asks the model to paragraph.
func paragraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			out = append(out, p)
		}
	}
	return out
}
