package common

import (
	"strings"
	"testing"
)

func TestParseShardType(t *testing.T) {
	tests := []struct {
		in      string
		want    ServerShardType
		wantErr bool
	}{
		{"ltree", ShardTypeLocalTree, false},
		{" DTREE ", ShardTypeRemoteTree, false},
		{"lstore", "", true},
	}
	for _, tt := range tests {
		got, err := ParseShardType(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseShardType(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestServerConfigString(t *testing.T) {
	local := ServerConfig{
		Shards:    []ServerShard{{ShardID: 1, Type: ShardTypeLocalTree}},
		Transport: ServerTransportConfig{Endpoint: ":8080"},
		LogLevel:  "info",
	}
	if local.HasRemoteShard() {
		t.Errorf("local only config reports a remote shard")
	}
	if s := local.String(); strings.Contains(s, "RAFT PARAMETERS") || !strings.Contains(s, ":8080") {
		t.Errorf("unexpected config rendering:\n%s", s)
	}

	remote := local
	remote.Shards = append(remote.Shards, ServerShard{ShardID: 2, Type: ShardTypeRemoteTree})
	remote.ReplicaID = 1
	remote.ClusterMembers = map[uint64]string{1: "localhost:63001"}
	if !remote.HasRemoteShard() {
		t.Errorf("config with a dtree shard reports no remote shard")
	}
	if s := remote.String(); !strings.Contains(s, "RAFT PARAMETERS") || !strings.Contains(s, "localhost:63001") {
		t.Errorf("raft section missing:\n%s", s)
	}

	nh := remote.ToNodeHostConfig()
	if nh.RaftAddress != "localhost:63001" {
		t.Errorf("RaftAddress = %q", nh.RaftAddress)
	}
	if rc := remote.ToDragonboatConfig(2); rc.ShardID != 2 || rc.ReplicaID != 1 {
		t.Errorf("unexpected raft config %+v", rc)
	}
}
