// Package render holds the renderers of layout results.
//
// The [nodelink] subpackage draws a column assignment as a Graphviz
// node-link diagram, for inspecting how the column assigner ordered and
// split the boxes of a patch.
//
// [nodelink]: github.com/matzehuels/patchlayout/pkg/render/nodelink
package render
