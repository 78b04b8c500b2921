package scenario

import (
	"errors"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// HCL scenarios use labelled blocks:
//
//	name = "line"
//
//	node "A" {
//	  kind = "lv"
//	}
//
//	edge {
//	  a = "A"
//	  b = "B"
//	}
//
//	step "activate" {
//	  nodes = ["A", "B"]
//	}
//
//	step "expect" {
//	  networks = [["A", "B"]]
//	}
type hclScenario struct {
	Name        string    `hcl:"name,optional"`
	Description string    `hcl:"description,optional"`
	Nodes       []hclNode `hcl:"node,block"`
	Edges       []hclEdge `hcl:"edge,block"`
	Steps       []hclStep `hcl:"step,block"`
}

type hclNode struct {
	ID     string `hcl:"id,label"`
	Kind   string `hcl:"kind"`
	Label  string `hcl:"label,optional"`
	Active bool   `hcl:"active,optional"`
}

type hclEdge struct {
	A    string `hcl:"a"`
	B    string `hcl:"b"`
	Open bool   `hcl:"open,optional"`
}

type hclStep struct {
	Op       string     `hcl:"op,label"`
	Comment  string     `hcl:"comment,optional"`
	Node     string     `hcl:"node,optional"`
	Nodes    []string   `hcl:"nodes,optional"`
	Kind     string     `hcl:"kind,optional"`
	Active   bool       `hcl:"active,optional"`
	A        string     `hcl:"a,optional"`
	B        string     `hcl:"b,optional"`
	State    string     `hcl:"state,optional"`
	Networks [][]string `hcl:"networks,optional"`
	Together []string   `hcl:"together,optional"`
	Apart    []string   `hcl:"apart,optional"`
	Inactive []string   `hcl:"inactive,optional"`
}

func parseHCL(data []byte, filename string) (*Scenario, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.New(diags.Error())
	}

	var hs hclScenario
	if diags := gohcl.DecodeBody(file.Body, nil, &hs); diags.HasErrors() {
		return nil, errors.New(diags.Error())
	}

	sc := &Scenario{Name: hs.Name, Description: hs.Description}
	for _, n := range hs.Nodes {
		sc.Nodes = append(sc.Nodes, NodeSpec(n))
	}
	for _, e := range hs.Edges {
		sc.Edges = append(sc.Edges, EdgeSpec(e))
	}
	for _, s := range hs.Steps {
		sc.Steps = append(sc.Steps, Step{
			Op:       Op(s.Op),
			Comment:  s.Comment,
			Node:     s.Node,
			Nodes:    s.Nodes,
			Kind:     s.Kind,
			Active:   s.Active,
			A:        s.A,
			B:        s.B,
			State:    s.State,
			Networks: s.Networks,
			Together: s.Together,
			Apart:    s.Apart,
			Inactive: s.Inactive,
		})
	}
	return sc, nil
}
