package serve

import (
	"reflect"
	"testing"

	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/rpc/common"
)

func TestParseShards(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []common.ServerShard
		wantErr bool
	}{
		{
			name:  "single local shard",
			input: "100=ltree",
			want:  []common.ServerShard{{ShardID: 100, Type: common.ShardTypeLocalTree}},
		},
		{
			name:  "mixed shards with spaces",
			input: "100=ltree, 200 = dtree",
			want: []common.ServerShard{
				{ShardID: 100, Type: common.ShardTypeLocalTree},
				{ShardID: 200, Type: common.ShardTypeRemoteTree},
			},
		},
		{name: "missing type", input: "100", wantErr: true},
		{name: "invalid id", input: "abc=ltree", wantErr: true},
		{name: "unknown type", input: "100=lstore", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseShards(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseShards failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseShards = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseClusterMembers(t *testing.T) {
	got, err := parseClusterMembers("node-1=localhost:63001,node-2=localhost:63002")
	if err != nil {
		t.Fatalf("parseClusterMembers failed: %v", err)
	}
	want := map[uint64]string{
		util.HashString("node-1"): "localhost:63001",
		util.HashString("node-2"): "localhost:63002",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseClusterMembers = %v, want %v", got, want)
	}

	if _, err := parseClusterMembers("node-1"); err == nil {
		t.Error("Expected error for member without address")
	}
}
