package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/patchlayout/pkg/core/patch"
	"github.com/matzehuels/patchlayout/pkg/graph"
	"github.com/matzehuels/patchlayout/pkg/render/nodelink"
)

// Render serializes a column assignment of g in the given format.
func Render(ctx context.Context, g *patch.Graph, cols graph.ColumnsResult, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.Marshal(cols)
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, graph.ToAssignment(cols), nodelink.Options{})), nil
	case FormatSVG:
		dot := nodelink.ToDOT(g, graph.ToAssignment(cols), nodelink.Options{})
		data, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return data, nil
	}
	return nil, ValidateFormat(format)
}
