package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/atlaspack/internal/model"
)

// spriteColor represents an RGB color for a placed sprite rectangle.
type spriteColor struct {
	R, G, B int
}

var spriteColors = []spriteColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Report layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF report of a packing result. Each atlas page is
// rendered on its own report page with a scaled layout diagram, followed by
// a summary page with overall statistics and the settings used.
func ExportPDF(path string, atlasName string, result model.PackResult, settings model.PackSettings) error {
	if len(result.Pages) == 0 {
		return fmt.Errorf("no pages to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i := range result.Pages {
		pdf.AddPage()
		renderAtlasPage(pdf, atlasName, result, i)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, atlasName, result, settings)

	return pdf.OutputFileAndClose(path)
}

// renderAtlasPage draws a single atlas page layout on the current PDF page.
func renderAtlasPage(pdf *fpdf.Fpdf, atlasName string, result model.PackResult, page int) {
	buf := result.Pages[page]
	entries := result.PageEntries(page)

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - page %d (%d x %d px)", atlasName, page, buf.Width(), buf.Height())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Sprites: %d | Used area: %d px² | Total area: %d px² | Occupancy: %.1f%%",
		len(entries), result.UsedArea(page), result.TotalArea(page), result.Occupancy(page))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Calculate drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	// Scale to fit the atlas page within the drawing area
	scaleX := drawWidth / float64(buf.Width())
	scaleY := drawHeight / float64(buf.Height())
	scale := math.Min(scaleX, scaleY)

	canvasW := float64(buf.Width()) * scale
	canvasH := float64(buf.Height()) * scale

	// Center the drawing horizontally
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Page background
	pdf.SetFillColor(60, 60, 60)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Draw placed sprites
	for i, e := range entries {
		col := spriteColors[i%len(spriteColors)]
		sw := float64(e.Source.Width) * scale
		sh := float64(e.Source.Height) * scale
		sx := offsetX + float64(e.Source.X)*scale
		sy := offsetY + float64(e.Source.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(sx, sy, sw, sh, "FD")

		// Sprite label (only if rectangle is large enough)
		if sw > 15 && sh > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(sw, sh))
			pdf.SetTextColor(0, 0, 0)

			label := e.Name
			dims := fmt.Sprintf("%dx%d", e.Source.Width, e.Source.Height)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < sw-2 {
				pdf.SetXY(sx+(sw-labelW)/2, sy+sh/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if sh > 14 && dimsW < sw-2 {
				pdf.SetXY(sx+(sw-dimsW)/2, sy+sh/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, buf.Width(), buf.Height(), scale, offsetX, offsetY, canvasW, canvasH)
	drawSpriteLegend(pdf, entries, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and height labels outside the page rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, height int, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Width annotation (below the page)
	widthLabel := fmt.Sprintf("%d px", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height annotation (to the left of the page, rotated)
	heightLabel := fmt.Sprintf("%d px", height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawSpriteLegend renders a compact legend of placed sprites at the bottom
// of the report page.
func drawSpriteLegend(pdf *fpdf.Fpdf, entries []model.Entry, startY float64) {
	if len(entries) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Sprites placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, e := range entries {
		col := spriteColors[i%len(spriteColors)]
		label := fmt.Sprintf("%s (%dx%d)", e.Name, e.Source.Width, e.Source.Height)
		labelW := pdf.GetStringWidth(label) + 6

		// Wrap to next line if needed
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		// Color swatch
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, atlasName string, result model.PackResult, settings model.PackSettings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Atlas Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	duplicates, empties := countSpecialEntries(result)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Atlas", atlasName},
		{"Pages", fmt.Sprintf("%d", len(result.Pages))},
		{"Overall Occupancy", fmt.Sprintf("%.1f%%", result.TotalOccupancy())},
		{"Total Sprites", fmt.Sprintf("%d", len(result.Entries))},
		{"Deduplicated Sprites", fmt.Sprintf("%d", duplicates)},
		{"Empty Sprites", fmt.Sprintf("%d", empties)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Per-page breakdown table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Page Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 50, 40, 40, 60}
	headers := []string{"Page", "Dimensions", "Sprites", "Occupancy", "Used / Total Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, page := range result.Pages {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d x %d px", page.Width(), page.Height()),
			fmt.Sprintf("%d", len(result.PageEntries(i))),
			fmt.Sprintf("%.1f%%", result.Occupancy(i)),
			fmt.Sprintf("%d / %d px²", result.UsedArea(i), result.TotalArea(i)),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Settings summary
	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Pack Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Max Page Size", fmt.Sprintf("%d px", settings.MaxSize)},
		{"Padding", fmt.Sprintf("%d px", settings.Padding)},
		{"Trim", fmt.Sprintf("%t", settings.Trim)},
		{"Power Of Two", fmt.Sprintf("%t", settings.PowerOfTwo)},
		{"Combine Duplicates", fmt.Sprintf("%t", settings.CombineDuplicates)},
		{"Duplicate Edges", fmt.Sprintf("%t", settings.DuplicateEdges)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by AtlasPack - Sprite Atlas Packer", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countSpecialEntries returns the number of duplicate-resolved and empty
// entries in a result. An entry pointing at a page index past the last real
// page is an empty source; an entry sharing a source rectangle and page with
// an earlier entry is a deduplicated sprite.
func countSpecialEntries(result model.PackResult) (duplicates, empties int) {
	seen := make(map[model.Entry]bool)
	for _, e := range result.Entries {
		if e.Page >= len(result.Pages) {
			empties++
			continue
		}
		key := model.Entry{Page: e.Page, Source: e.Source}
		if seen[key] {
			duplicates++
		}
		seen[key] = true
	}
	return duplicates, empties
}
