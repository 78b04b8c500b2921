package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/gridnet/pkg/grid"
)

func TestNetworkTable(t *testing.T) {
	snap := grid.Snapshot{Networks: []grid.NetworkView{
		{ID: 1, Kind: "lv", Members: []grid.NodeID{"A", "B"}},
		{ID: 4, Kind: "hv", Members: []grid.NodeID{"H"}},
	}}
	out := networkTable(snap, nil)
	for _, want := range []string{"Network", "Members", "net-1", "A B", "net-4", "hv"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	if empty := networkTable(grid.Snapshot{}, nil); !strings.Contains(empty, "Network") {
		t.Errorf("empty partition should still render headers:\n%s", empty)
	}
}

func TestChangedNetworks(t *testing.T) {
	before := grid.Snapshot{Networks: []grid.NetworkView{
		{ID: 1, Members: []grid.NodeID{"A", "B"}},
		{ID: 2, Members: []grid.NodeID{"C"}},
	}}
	after := grid.Snapshot{Networks: []grid.NetworkView{
		{ID: 1, Members: []grid.NodeID{"A", "B", "C"}},
		{ID: 3, Members: []grid.NodeID{"D"}},
	}}
	changed := changedNetworks(before, after)
	if !changed[1] || !changed[3] || len(changed) != 2 {
		t.Errorf("changed = %v, want net-1 (grew) and net-3 (new)", changed)
	}
	if got := changedNetworks(after, after); len(got) != 0 {
		t.Errorf("no step, no change: %v", got)
	}
}
