package export

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcolor "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/annotation"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
)

// pageDims reads the media box of the first page. The page count is
// returned so callers can report documents with none.
func pageDims(path string) (coords.PageSize, int, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return coords.PageSize{}, 0, fmt.Errorf("reading page dims: %w", err)
	}
	if len(dims) == 0 {
		return coords.PageSize{}, 0, fmt.Errorf("document has no pages")
	}
	return coords.PageSize{Width: dims[0].Width, Height: dims[0].Height}, len(dims), nil
}

// stampOverlay composites the overlay file on top of page 1 of the
// document at path, in place. The overlay page matches the target
// page's media box, so a centered 1:1 stamp lands exactly.
func stampOverlay(path, overlayPath string) error {
	desc := "pos:c, scale:1 rel, rotation:0"
	if err := api.AddPDFWatermarksFile(path, "", []string{"1"}, true, overlayPath, desc, nil); err != nil {
		return fmt.Errorf("stamping overlay: %w", err)
	}
	return nil
}

// markupAnnotations builds native highlight markup for the snapshot.
// Only highlights have a faithful markup counterpart; ink and notes
// stay in the burned overlay.
func markupAnnotations(anns []annotation.Annotation, proj *coords.Projector) map[int][]model.AnnotationRenderer {
	annotMap := make(map[int][]model.AnnotationRenderer)
	annID := 0

	for _, a := range anns {
		h, ok := a.(annotation.Highlight)
		if !ok {
			continue
		}

		bounds := projectedRect(proj, h.Start, h.End)
		rect := types.NewRectangle(bounds.X.Lo, bounds.Y.Lo, bounds.X.Hi, bounds.Y.Hi)

		var quadPoints types.QuadPoints
		ql := types.NewQuadLiteralForRect(rect)
		quadPoints = append(quadPoints, *ql)

		r, g, b := h.Color.RGB()
		col := pdfcolor.SimpleColor{R: float32(r), G: float32(g), B: float32(b)}

		annID++
		id := fmt.Sprintf("hl_%d", annID)
		ar := model.NewHighlightAnnotation(
			*rect, "", id, "",
			0, &col, 0, 0, 0, "", nil, nil, "", "",
			quadPoints,
		)
		annotMap[1] = append(annotMap[1], ar)
	}
	return annotMap
}

// addMarkup attaches the markup annotations to the document in place.
func addMarkup(path string, annotMap map[int][]model.AnnotationRenderer) error {
	if len(annotMap) == 0 {
		return nil
	}
	conf := model.NewDefaultConfiguration()
	if err := api.AddAnnotationsMapFile(path, "", annotMap, conf, true); err != nil {
		return fmt.Errorf("adding markup annotations: %w", err)
	}
	return nil
}
