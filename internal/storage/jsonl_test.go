package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"yieldDesk/internal/model"
)

func TestJsonlStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tvl.jsonl")
	sink := NewJsonlStorage(path)

	if err := sink.PutSnapshotBatch([]model.TVLSnapshot{{PoolID: "a", TVL: "1"}}); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if err := sink.PutSnapshotBatch([]model.TVLSnapshot{{PoolID: "b", TVL: "0", Error: "boom"}}); err != nil {
		t.Fatalf("second batch: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var ids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var snap model.TVLSnapshot
		if err := json.Unmarshal(scanner.Bytes(), &snap); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		ids = append(ids, snap.PoolID)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("lines = %v", ids)
	}
}

func TestJsonlStorageStdout(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJsonlStorage("-")
	sink.stdout = &buf

	if err := sink.PutSnapshotBatch([]model.TVLSnapshot{{PoolID: "a"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) || !bytes.Contains(buf.Bytes(), []byte(`"poolId":"a"`)) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestReadPoolsJsonl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.jsonl")
	body := `{"id":"bnb","name":"BNB vault","chainId":56,"vaultAddress":"0x1111111111111111111111111111111111111111","strategyAddress":"0x2222222222222222222222222222222222222222","tokenAddress":"0x3333333333333333333333333333333333333333","tokenDecimals":18}

{"name":"paused","chainId":1,"vaultAddress":"0x4444444444444444444444444444444444444444","strategyAddress":"0x2222222222222222222222222222222222222222","tokenAddress":"0x3333333333333333333333333333333333333333","status":"inactive"}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	pools, err := ReadPoolsJsonl(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(pools) != 2 {
		t.Fatalf("pools = %d", len(pools))
	}
	if pools[0].ID != "bnb" || pools[0].Status != model.StatusActive {
		t.Fatalf("first pool: %+v", pools[0])
	}
	if pools[1].ID != "line-3" || pools[1].Status != model.StatusInactive {
		t.Fatalf("second pool: %+v", pools[1])
	}
}

func TestReadPoolsJsonlRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.jsonl")
	if err := os.WriteFile(path, []byte(`{"name":"x","chainId":56,"vaultAddress":"nope"}`+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadPoolsJsonl(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
