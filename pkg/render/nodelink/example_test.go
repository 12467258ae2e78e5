package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/parttree/pkg/render/nodelink"
	"github.com/matzehuels/parttree/pkg/tree"
)

func ExampleToDOT() {
	root := &tree.Node{ID: "1", Name: "Frame", Children: []tree.Edge{
		{Quantity: tree.Qty(4), Child: &tree.Node{ID: "2", Name: "Bolt"}},
	}}

	fmt.Print(nodelink.ToDOT(root, nodelink.Options{}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   edge [fontsize=12];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   "1" [label="Frame"];
	//   "1" -> "2" [label="×4"];
	//   "2" [label="Bolt"];
	// }
}
