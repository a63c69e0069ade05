package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"toothlab/domain/dataset"
	"toothlab/internal"
	"toothlab/ports"
)

const (
	documentName = "report.md"
	htmlName     = "report.html"
	figureName   = "response_by_dose.png"
)

// Renderer writes the report artifacts: a markdown document, the scatter
// figure it references, and optionally an HTML rendering of the document.
type Renderer struct {
	outputDir     string
	decimalPlaces int
	emitHTML      bool
	xField        dataset.FieldName
	colorField    dataset.FieldName
	logger        *internal.Logger
}

var _ ports.ReportRendererPort = (*Renderer)(nil)

type Options struct {
	OutputDir     string
	DecimalPlaces int
	EmitHTML      bool
}

func NewRenderer(opts Options) *Renderer {
	if opts.OutputDir == "" {
		opts.OutputDir = "out"
	}
	if opts.DecimalPlaces <= 0 {
		opts.DecimalPlaces = 4
	}
	return &Renderer{
		outputDir:     opts.OutputDir,
		decimalPlaces: opts.DecimalPlaces,
		emitHTML:      opts.EmitHTML,
		xField:        "dose",
		colorField:    "supplement",
		logger:        internal.NewDefaultLogger(),
	}
}

func (r *Renderer) Render(ctx context.Context, req ports.RenderRequest) (*ports.RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ports.RenderResult{}

	// The figure goes first so the document can reference it by name.
	figureRef := ""
	if req.Data != nil && !req.Data.IsEmpty() {
		xField, colorField := r.plotFields(req.Data)
		figurePath := filepath.Join(r.outputDir, figureName)
		if err := renderScatter(req.Data, xField, colorField, figurePath); err != nil {
			return nil, err
		}
		result.FigurePath = figurePath
		figureRef = figureName
	}

	doc := r.buildDocument(req, figureRef)
	documentPath := filepath.Join(r.outputDir, documentName)
	if err := os.WriteFile(documentPath, []byte(doc), 0644); err != nil {
		return nil, fmt.Errorf("failed to write report document: %w", err)
	}
	result.DocumentPath = documentPath

	if r.emitHTML {
		htmlPath := filepath.Join(r.outputDir, htmlName)
		if err := os.WriteFile(htmlPath, toHTML(doc, "Tooth Growth Report"), 0644); err != nil {
			return nil, fmt.Errorf("failed to write HTML report: %w", err)
		}
		result.HTMLPath = htmlPath
	}

	return result, nil
}

// plotFields picks the x and color factors, falling back to the dataset
// schema when the default tooth growth fields are absent.
func (r *Renderer) plotFields(d *dataset.Dataset) (dataset.FieldName, dataset.FieldName) {
	x, c := r.xField, r.colorField
	if !d.HasField(x) && len(d.FactorFields) > 0 {
		x = d.FactorFields[len(d.FactorFields)-1]
		r.logger.Warn("Plot field %q not in dataset, using %q for the x axis", r.xField, x)
	}
	if !d.HasField(c) && len(d.FactorFields) > 0 {
		c = d.FactorFields[0]
		r.logger.Warn("Plot field %q not in dataset, coloring by %q", r.colorField, c)
	}
	return x, c
}
